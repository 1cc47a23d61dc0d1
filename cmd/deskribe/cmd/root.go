/**
 * Copyright 2024 Deskribe Authors <info@deskribe.dev>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-wordwrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	backenddummy "github.com/deskribe/deskribe/pkg/deskribe/backend/dummy"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
	"github.com/deskribe/deskribe/pkg/deskribe/plugin"
	"github.com/deskribe/deskribe/pkg/deskribe/provider/kafka"
	"github.com/deskribe/deskribe/pkg/deskribe/provider/postgres"
	"github.com/deskribe/deskribe/pkg/deskribe/provider/redis"
	runtimedummy "github.com/deskribe/deskribe/pkg/deskribe/runtime/dummy"
)

// DefaultManifestFile is the manifest looked up when -m is not given.
const DefaultManifestFile = "deskribe.json"

// DefaultPlatformDir is the platform directory looked up when -p is not given.
const DefaultPlatformDir = "platform"

var silentErr = errors.New("silentErr")

var rootCmd = &cobra.Command{
	Short:            "Declare what your service needs; let the platform deliver it.",
	Use:              "deskribe",
	TraverseChildren: true,
	SilenceErrors:    true,
	SilenceUsage:     true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLogLevel(logrus.DebugLevel)
		}
	},
}

// NewRootCmd returns root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolP(
		"verbose",
		"v",
		false,
		"Show more output",
	)

	// This is required to help with error handling from RunE, https://github.com/spf13/cobra/issues/914#issuecomment-548411337
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.Println(err)
		cmd.Println(cmd.UsageString())
		return silentErr
	})

	registerPlugins()
}

// registerPlugins populates the process-wide registry. Registration must
// complete before any command runs.
func registerPlugins() {
	plugin.RegisterProvider(postgres.New())
	plugin.RegisterProvider(redis.New())

	k := kafka.New()
	plugin.RegisterProvider(k)
	plugin.RegisterMessaging(k)

	plugin.RegisterBackend(backenddummy.New())
	plugin.RegisterRuntime(runtimedummy.New())
}

func addCommonFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringP(
		"manifest",
		"m",
		DefaultManifestFile,
		"Path to the application manifest",
	)

	flags.StringP(
		"platform",
		"p",
		DefaultPlatformDir,
		"Path to the platform configuration directory",
	)

	flags.StringP(
		"environment",
		"e",
		"dev",
		"Target deployment environment",
	)
}

// Execute command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, silentErr) {
			fmt.Println(wordwrap.WrapString(err.Error(), 80))
		}
		os.Exit(1)
	}
}
