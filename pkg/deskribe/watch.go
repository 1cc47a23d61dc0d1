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

package deskribe

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/deskribe/deskribe/pkg/deskribe/log"
)

// Watch watches the given configuration files and notifies write events to a
// channel until the context is cancelled. The dev command uses it to
// re-validate and re-plan on every change.
func Watch(ctx context.Context, paths []string, change chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				change <- event.Name
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(err)
		}
	}
}
