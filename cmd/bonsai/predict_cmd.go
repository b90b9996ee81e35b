package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/dataset/inputsample"
	"github.com/pbanos/bonsai/feature"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	rootID        string
	dataInput     string
	metadataInput string
	output        string
	interactive   bool
}

type stdoutFeatureValueRequester struct {
	w io.Writer
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict labels for a set of feature vectors",
		Long:  `Use the loaded tree to predict the label of every row of the input, writing one label per line`,
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
			t, err := loadTree(ctx, config.logger, config.treeInput, config.rootID)
			if err != nil {
				return exit(3, err)
			}
			if t.FeatureCount != len(md.Features) {
				return exit(3, fmt.Errorf("tree expects %d features, metadata describes %d", t.FeatureCount, len(md.Features)))
			}
			if config.interactive {
				sample := inputsample.New(cmd.InOrStdin(), md, stdoutFeatureValueRequester{cmd.OutOrStdout()})
				label, err := sample.Predict(t)
				if err != nil {
					return exit(4, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Predicted label is %s\n", label)
				return nil
			}
			xs, err := readVectors(ctx, config.logger, config.dataInput, md, cmd.InOrStdin())
			if err != nil {
				return exit(4, fmt.Errorf("reading input: %w", err))
			}
			labels, err := bonsai.Predict(t, xs)
			if err != nil {
				return exit(5, err)
			}
			err = config.writeLabels(cmd.OutOrStdout(), labels)
			if err != nil {
				return exit(6, fmt.Errorf("writing predictions: %w", err))
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the feature vectors to predict labels for (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON or SQLite3 (.db) file, or a Redis URL from which the tree will be read (required)")
	cmd.PersistentFlags().StringVar(&(config.rootID), "root-id", "", "ID of the root node of the tree on a SQLite3 file or Redis database")
	cmd.PersistentFlags().BoolVar(&(config.interactive), "interactive", false, "predict the label of a single sample answering questions about the features the tree needs")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to write the predicted labels to (defaults to STDOUT)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

func (pcc *predictCmdConfig) writeLabels(stdout io.Writer, labels []string) error {
	w := stdout
	if pcc.output != "" {
		f, err := os.Create(pcc.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	for _, l := range labels {
		_, err := fmt.Fprintln(w, l)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f *feature.ContinuousFeature) error {
	_, err := fmt.Fprintf(sfvr.w, "Please provide the sample's %s:\n(valid values are real numbers)\n", f.Name())
	return err
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f *feature.ContinuousFeature, value string) error {
	_, err := fmt.Fprintf(sfvr.w, "%s is not a valid value for the sample's %s. Please provide a real number.\n", value, f.Name())
	return err
}
