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
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deskribe/deskribe/pkg/deskribe"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

var planLongDesc = `(plan) Compute the execution plan for an environment without touching any backend.

Examples:

   ### Plan the dev environment
   $ deskribe plan -e dev

   ### Plan with a specific workload image
   $ deskribe plan -e prod --image api=registry.example.com/svc:1.4.2

   ### Write the plan to a file
   $ deskribe plan -e prod -o plan.json`

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the execution plan for an environment without touching any backend.",
	Long:  planLongDesc,
	RunE:  runPlanCmd,
}

func init() {
	addCommonFlags(planCmd)
	flags := planCmd.Flags()

	flags.StringToString(
		"image",
		map[string]string{},
		"Workload image override as <serviceName>=<image>",
	)

	flags.StringP(
		"output",
		"o",
		"",
		"Write the plan JSON to a file instead of stdout",
	)

	rootCmd.AddCommand(planCmd)
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	manifest, _ := cmd.Flags().GetString("manifest")
	platform, _ := cmd.Flags().GetString("platform")
	environment, _ := cmd.Flags().GetString("environment")
	images, _ := cmd.Flags().GetStringToString("image")
	output, _ := cmd.Flags().GetString("output")

	plan, err := deskribe.Plan(manifest, platform, environment, images)
	if err != nil {
		return errors.Wrap(err, "plan failed")
	}

	for _, warning := range plan.Warnings {
		log.Warnf("%s", warning)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize plan")
	}

	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write plan to %s", output)
	}

	fmt.Printf("Plan written to %s\n", output)
	return nil
}
