// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quill-lang/quill/pkg/ir"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] source_file(s)",
	Short: "expand all macros in the given source file(s).",
	Long: `Parse the given source file(s), expand all macro calls within them and print
	 the resulting compilation unit(s).`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if len(args) == 0 {
			fmt.Println("expected one or more source files")
			os.Exit(1)
		}
		//
		config := readConfig(cmd)
		// Command-line settings override the configuration file.
		if limit := GetUint(cmd, "limit"); limit != 0 {
			config.RecursionLimit = int(limit)
		}
		//
		if cmd.Flags().Changed("regular-calls") {
			flag := GetFlag(cmd, "regular-calls")
			config.ExpandRegularCalls = &flag
		}
		//
		if cmd.Flags().Changed("reexpand") {
			flag := GetFlag(cmd, "reexpand")
			config.ReexpandResults = &flag
		}
		//
		config.Use = append(config.Use, GetStringArray(cmd, "use")...)
		// Compile and print each unit
		for _, unit := range CompileSourceFiles(config, args) {
			fmt.Println(ir.Dump(unit.Module))
		}
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().Uint("limit", 0, "override macro recursion limit")
	expandCmd.Flags().Bool("regular-calls", true, "treat unmarked calls as expansion candidates")
	expandCmd.Flags().Bool("reexpand", true, "re-expand macro results")
	expandCmd.Flags().StringArray("use", nil, "make macros of given module visible without import")
}
