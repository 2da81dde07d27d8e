// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"strings"

	"smctl/internal/config"

	"github.com/spf13/cobra"
)

// envCompletionFunc completes environment aliases for --env.
func envCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.FileStore{}.Load()
	// Ignore config load errors during completion
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	suggestions := []string{}
	for _, alias := range cfg.Aliases() {
		if strings.HasPrefix(alias, toComplete) {
			suggestions = append(suggestions, alias+"\t"+cfg.Environments[alias].Name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// envArgCompletionFunc completes a single positional alias.
func envArgCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return envCompletionFunc(cmd, args, toComplete)
}

// libraryFileCompletionFunc limits file completion to script libraries.
func libraryFileCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"js"}, cobra.ShellCompDirectiveFilterFileExt
}
