// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package env

const consoleSample = `
# Console logging level (debug|info|error). (default info)
level = "info"

# Console logging format (human|json). If empty, human is used when
# stderr is a terminal and json otherwise. (default "")
format = ""
`

const metricsSample = `
# The file the metrics of a run are written to, in the prometheus text
# format. Point it into the node exporter textfile collector directory.
# If not set, metrics are not exported. (default "")
textfile = ""
`
