// Copyright 2025 DraftbotAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

// JobProgress is the externally-polled status record for one job. Percent is
// non-decreasing on the happy path; terminal states always carry a human-
// readable Status, and Error holds the proximate message on failure (never a
// stack trace).
type JobProgress struct {
	Percent int    `json:"percent"` // 0-100
	Status  string `json:"status"`
	Output  string `json:"output,omitempty"` // public URL or local path of the finished video
	Error   string `json:"error,omitempty"`
}

// Done reports whether the record is terminal.
func (p JobProgress) Done() bool {
	return p.Percent >= 100 || p.Error != ""
}
