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
)

var destroyLongDesc = `(destroy) Tear down the deployed workload and its provisioned resources.

Teardown is best effort: a failing resource does not block the teardown of
the others.

Examples:

   ### Destroy the dev environment
   $ deskribe destroy -e dev`

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Tear down the deployed workload and its provisioned resources.",
	Long:  destroyLongDesc,
	RunE:  runDestroyCmd,
}

func init() {
	addCommonFlags(destroyCmd)
	rootCmd.AddCommand(destroyCmd)
}

func runDestroyCmd(cmd *cobra.Command, _ []string) error {
	manifest, _ := cmd.Flags().GetString("manifest")
	platform, _ := cmd.Flags().GetString("platform")
	environment, _ := cmd.Flags().GetString("environment")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deskribe.Destroy(ctx, manifest, platform, environment); err != nil {
		return errors.Wrap(err, "destroy failed")
	}

	fmt.Println("Destroy complete!")
	return nil
}
