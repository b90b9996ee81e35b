package main

import (
	"fmt"

	"github.com/pbanos/bonsai/dataset"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	rootID        string
	dataInput     string
	metadataInput string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set, printing the ratio of records it predicts correctly`,
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
			records, err := readRecords(ctx, config.logger, config.dataInput, md, cmd.InOrStdin())
			if err != nil {
				return exit(4, fmt.Errorf("reading testing set: %w", err))
			}
			testingSet, err := dataset.New(records)
			if err != nil {
				return exit(4, fmt.Errorf("reading testing set: %w", err))
			}
			accuracy, err := t.Test(testingSet)
			if err != nil {
				return exit(5, fmt.Errorf("testing tree: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%f success rate\n", accuracy)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and label available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON or SQLite3 (.db) file, or a Redis URL from which the tree to test will be read (required)")
	cmd.PersistentFlags().StringVar(&(config.rootID), "root-id", "", "ID of the root node of the tree on a SQLite3 file or Redis database")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}
