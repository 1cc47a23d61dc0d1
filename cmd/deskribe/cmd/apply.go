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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deskribe/deskribe/pkg/deskribe"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

var applyLongDesc = `(apply) Provision the declared resources and deploy the workload.

Examples:

   ### Apply the dev environment
   $ deskribe apply -e dev

   ### Apply with a specific workload image
   $ deskribe apply -e prod --image api=registry.example.com/svc:1.4.2`

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Provision the declared resources and deploy the workload.",
	Long:  applyLongDesc,
	RunE:  runApplyCmd,
}

func init() {
	addCommonFlags(applyCmd)
	applyCmd.Flags().StringToString(
		"image",
		map[string]string{},
		"Workload image override as <serviceName>=<image>",
	)
	rootCmd.AddCommand(applyCmd)
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
	manifest, _ := cmd.Flags().GetString("manifest")
	platform, _ := cmd.Flags().GetString("platform")
	environment, _ := cmd.Flags().GetString("environment")
	images, _ := cmd.Flags().GetStringToString("image")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := deskribe.Plan(manifest, platform, environment, images)
	if err != nil {
		return errors.Wrap(err, "apply failed")
	}
	for _, warning := range plan.Warnings {
		log.Warnf("%s", warning)
	}

	if err := deskribe.Apply(ctx, plan); err != nil {
		return errors.Wrap(err, "apply failed")
	}

	fmt.Printf("Apply complete for %s/%s!\n", plan.AppName, plan.Environment)
	return nil
}
