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
	"fmt"
	"strings"

	"github.com/deskribe/deskribe/pkg/deskribe/config"
)

// ValidationFailedError carries the aggregated validation result when a
// command cannot proceed past the validation phase.
type ValidationFailedError struct {
	Result config.ValidationResult
}

func (e *ValidationFailedError) Error() string {
	messages := make([]string, 0, len(e.Result.Errors))
	for _, issue := range e.Result.Errors {
		messages = append(messages, issue.String())
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e.Result.Errors), strings.Join(messages, "; "))
}

// BackendApplyFailedError indicates a backend adapter failed to provision a
// resource. The command aborts before any runtime deployment.
type BackendApplyFailedError struct {
	ResourceType string
	Errors       []string
}

func (e *BackendApplyFailedError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("backend apply failed for resource %q", e.ResourceType)
	}
	return fmt.Sprintf("backend apply failed for resource %q: %s", e.ResourceType, strings.Join(e.Errors, "; "))
}
