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
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quill-lang/quill/pkg/macro"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] source_file(s)",
	Short: "inspect a compilation unit at a given stage of compilation.",
	Long: `Compile the given source file(s) and print a snapshot of each unit at a chosen
	 stage (parsed, expanded or final), optionally as a diff against the parsed form.`,
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
		stage, ok := macro.ParseCheckpoint(GetString(cmd, "stage"))
		if !ok {
			fmt.Printf("unknown stage %q (expected parsed, expanded or final)\n", GetString(cmd, "stage"))
			os.Exit(1)
		}
		//
		config := readConfig(cmd)
		//
		for _, unit := range CompileSourceFiles(config, args) {
			if GetFlag(cmd, "diff") {
				printStageDiff(&unit.Checkpoints, stage)
			} else {
				printStage(unit.Checkpoints.Get(stage))
			}
		}
	},
}

// printStage prints a snapshot, truncating lines to the terminal width when
// attached to one.
func printStage(dump string) {
	width := terminalWidth()
	//
	for _, line := range strings.Split(dump, "\n") {
		if width > 0 && len(line) > width {
			line = line[:width]
		}
		//
		fmt.Println(line)
	}
}

// printStageDiff prints the difference between the parsed snapshot and the
// snapshot at a given stage, with insertions and deletions highlighted
// (colour is suppressed when not writing to a terminal).
func printStageDiff(checkpoints *macro.Checkpoints, stage macro.Checkpoint) {
	var (
		before = checkpoints.Get(macro.AsParsed)
		after  = checkpoints.Get(stage)
	)
	//
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	//
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	//
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			color.New(color.FgGreen).Print(diff.Text)
		case diffmatchpatch.DiffDelete:
			color.New(color.FgRed, color.CrossedOut).Print(diff.Text)
		default:
			fmt.Print(diff.Text)
		}
	}
	//
	fmt.Println()
}

// terminalWidth determines the width of the attached terminal, or zero when
// output is not a terminal.
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	//
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	//
	return width
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("stage", "final", "stage to inspect (parsed, expanded or final)")
	inspectCmd.Flags().Bool("diff", false, "show diff against the parsed form")
}
