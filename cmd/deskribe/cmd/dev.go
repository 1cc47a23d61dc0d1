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
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deskribe/deskribe/pkg/deskribe"
	"github.com/deskribe/deskribe/pkg/deskribe/config"
	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

var devLongDesc = `(dev) Continuous re-validate and re-plan on manifest or platform changes.

Examples:

   ### Run deskribe in dev mode against the dev environment
   $ deskribe dev

   ### Watch a manifest at a custom location
   $ deskribe dev -m services/api/deskribe.json -p infra/platform`

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Continuous re-validate and re-plan on manifest or platform changes.",
	Long:  devLongDesc,
	RunE:  runDevCmd,
}

func init() {
	addCommonFlags(devCmd)
	rootCmd.AddCommand(devCmd)
}

func runDevCmd(cmd *cobra.Command, _ []string) error {
	manifest, _ := cmd.Flags().GetString("manifest")
	platform, _ := cmd.Flags().GetString("platform")
	environment, _ := cmd.Flags().GetString("environment")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	revalidate := func() {
		result, err := deskribe.Validate(manifest, platform, environment)
		if err != nil {
			log.Errorf("validate failed: %s", err)
			return
		}
		for _, issue := range result.Warnings {
			log.Warnf("%s", issue)
		}
		for _, issue := range result.Errors {
			log.Errorf("%s", issue)
		}
		if !result.IsValid() {
			return
		}

		plan, err := deskribe.Plan(manifest, platform, environment, nil)
		if err != nil {
			log.Errorf("plan failed: %s", err)
			return
		}
		log.Infof("plan up to date: %d resource plan(s) for %s/%s", len(plan.ResourcePlans), plan.AppName, plan.Environment)
	}

	revalidate()

	change := make(chan string)
	go func() {
		for file := range change {
			log.Infof("%s changed, re-planning...", file)
			revalidate()
		}
	}()

	paths := []string{
		manifest,
		filepath.Join(platform, config.PlatformBaseFile),
		filepath.Join(platform, config.PlatformEnvsDir),
	}
	if err := deskribe.Watch(ctx, paths, change); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "dev watch failed")
	}
	return nil
}
