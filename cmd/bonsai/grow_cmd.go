package main

import (
	"fmt"

	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput          string
	metadataInput      string
	output             string
	maxDepth           int
	cpuIntensiveSet    bool
	memoryIntensiveSet bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a classification tree from a set of labeled data to predict its label.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := config.Validate()
			if err != nil {
				return exit(1, err)
			}
			ctx := cmd.Context()
			md, err := readMetadata(config.metadataInput)
			if err != nil {
				return exit(2, err)
			}
			records, err := readRecords(ctx, config.logger, config.dataInput, md, cmd.InOrStdin())
			if err != nil {
				return exit(3, fmt.Errorf("reading training set: %w", err))
			}
			trainingSet, err := config.dataset(records)
			if err != nil {
				return exit(4, fmt.Errorf("reading training set: %w", err))
			}
			opts := []bonsai.Option{bonsai.Logger(config.logger)}
			if md.MaxDepth != nil {
				opts = append(opts, bonsai.MaxDepth(*md.MaxDepth))
			}
			if cmd.Flags().Changed("max-depth") {
				opts = append(opts, bonsai.MaxDepth(config.maxDepth))
			}
			config.logger.Debug("growing tree",
				zap.Int("records", trainingSet.Count()),
				zap.Int("features", trainingSet.FeatureCount()),
				zap.String("label", md.Label.Name()))
			t, err := bonsai.Grow(trainingSet, opts...)
			if err != nil {
				return exit(5, fmt.Errorf("growing the tree: %w", err))
			}
			rootID, err := storeTree(ctx, config.logger, config.output, t, cmd.OutOrStdout())
			if err != nil {
				return exit(6, fmt.Errorf("writing the tree: %w", err))
			}
			if rootID != "" {
				fmt.Fprintln(cmd.OutOrStdout(), rootID)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and label available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a JSON file or SQLite3 (.db) file, or a Redis URL to which the generated tree will be written; the root ID is printed for the latter (defaults to STDOUT in JSON)")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", bonsai.Unbounded, "maximum depth of the tree, negative for unbounded (defaults to the metadata maxDepth)")
	cmd.PersistentFlags().BoolVar(&(config.memoryIntensiveSet), "memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	cmd.PersistentFlags().BoolVar(&(config.cpuIntensiveSet), "cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.cpuIntensiveSet && gcc.memoryIntensiveSet {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	return nil
}

func (gcc *growCmdConfig) dataset(records []dataset.Record) (dataset.Dataset, error) {
	if gcc.memoryIntensiveSet {
		return dataset.NewMemoryIntensive(records)
	}
	if gcc.cpuIntensiveSet {
		return dataset.NewCPUIntensive(records)
	}
	return dataset.New(records)
}
