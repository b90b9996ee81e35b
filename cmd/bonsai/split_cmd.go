package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pbanos/bonsai/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, typically to keep the split set for testing`,
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
			records, err := readRecords(ctx, config.logger, config.setInput, md, cmd.InOrStdin())
			if err != nil {
				return exit(3, fmt.Errorf("reading input set: %w", err))
			}
			seed := config.seed
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			output, split := splitRecords(records, config.splitProbability, rand.New(rand.NewSource(seed)))
			err = writeRecords(ctx, config.logger, config.setOutput, md, output, cmd.OutOrStdout())
			if err != nil {
				return exit(4, fmt.Errorf("writing output set: %w", err))
			}
			err = writeRecords(ctx, config.logger, config.splitOutput, md, split, cmd.OutOrStdout())
			if err != nil {
				return exit(5, fmt.Errorf("writing split set: %w", err))
			}
			config.logger.Debug("input set split",
				zap.Int("records", len(records)),
				zap.Int("output", len(output)),
				zap.Int("split", len(split)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a record of the set will be assigned to the split set")
	cmd.Flags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the split set (required)")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed for the random assignment of records (defaults to the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	err := scc.setCmdConfig.Validate()
	if err != nil {
		return err
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

func splitRecords(records []dataset.Record, probability int, r *rand.Rand) (output, split []dataset.Record) {
	for _, rec := range records {
		if r.Intn(100) < probability {
			split = append(split, rec)
		} else {
			output = append(output, rec)
		}
	}
	return output, split
}
