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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deskribe/deskribe/pkg/deskribe"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

var validateLongDesc = `(validate) Statically validate the manifest against the platform configuration.

Examples:

   ### Validate the manifest for the dev environment
   $ deskribe validate -e dev

   ### Validate a manifest at a custom location
   $ deskribe validate -m services/api/deskribe.json -p infra/platform -e prod`

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Statically validate the manifest against the platform configuration.",
	Long:  validateLongDesc,
	RunE:  runValidateCmd,
}

func init() {
	addCommonFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runValidateCmd(cmd *cobra.Command, _ []string) error {
	manifest, _ := cmd.Flags().GetString("manifest")
	platform, _ := cmd.Flags().GetString("platform")
	environment, _ := cmd.Flags().GetString("environment")

	result, err := deskribe.Validate(manifest, platform, environment)
	if err != nil {
		return errors.Wrap(err, "validate failed")
	}

	for _, issue := range result.Warnings {
		log.Warnf("%s", issue)
	}
	for _, issue := range result.Errors {
		log.Errorf("%s", issue)
	}

	if !result.IsValid() {
		return errors.Errorf("validation failed with %d error(s)", len(result.Errors))
	}

	fmt.Println("Validation successful!")
	return nil
}
