package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput string
	rootID    string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Draw a classification tree",
		Long:  `Load a classification tree and draw it as text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.treeInput == "" {
				return exit(1, fmt.Errorf("required tree flag was not set"))
			}
			t, err := loadTree(cmd.Context(), config.logger, config.treeInput, config.rootID)
			if err != nil {
				return exit(3, err)
			}
			config.logger.Debug("tree loaded", zap.Int("depth", t.Depth()), zap.Int("leaves", t.Leaves()))
			fmt.Fprint(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON or SQLite3 (.db) file, or a Redis URL from which the tree to show will be read (required)")
	cmd.Flags().StringVar(&(config.rootID), "root-id", "", "ID of the root node of the tree on a SQLite3 file or Redis database")
	return cmd
}
