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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quill-lang/quill/pkg/compiler"
	"github.com/quill-lang/quill/pkg/macro"
	"github.com/quill-lang/quill/pkg/util/source"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetStringArray gets an expected string array flag, or panic if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetUint gets an expected uint flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// CompileSourceFiles accepts a set of source files and compiles them into
// fully expanded compilation units.  This can result, for example, in one or
// more syntax errors or expansion faults, in which case they are reported
// and the process exits.
func CompileSourceFiles(config compiler.Config, filenames []string) []*compiler.CompiledUnit {
	srcfiles, err := source.ReadFiles(filenames...)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	registry := macro.NewRegistry()
	units, errs := compiler.NewCompiler(registry).WithConfig(config).CompileSourceFiles(srcfiles)
	// Check for errors
	if len(errs) != 0 {
		reportErrors(errs)
		os.Exit(4)
	}
	// Done
	return units
}

// readConfig loads project configuration, either from an explicit path or by
// searching from the working directory upwards.
func readConfig(cmd *cobra.Command) compiler.Config {
	var (
		config compiler.Config
		err    error
	)
	//
	if path := GetString(cmd, "config"); path != "" {
		config, err = compiler.ReadConfig(path)
	} else if dir, derr := os.Getwd(); derr == nil {
		config, err = compiler.FindConfig(dir)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	return config
}

// reportErrors prints a set of compilation errors, with source highlighting
// where positions are available.
func reportErrors(errs []error) {
	for _, err := range errs {
		var syntaxError *source.SyntaxError
		//
		if errors.As(err, &syntaxError) {
			printSyntaxError(syntaxError)
		} else {
			fmt.Println(err)
		}
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
