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

package config

const syncSample = `
# Name of the prefix-list on the device. Usually given with --prefix-list.
# (default "")
prefix_list = ""

# AS number or AS-SET to resolve, e.g., "AS-EXAMPLE". If empty, nothing is
# resolved and only the deletion runs. (default "")
query = ""

# Delete the prefix-list before loading the prefixes. (default false)
delete = false

# Show the difference but do not commit. (default false)
dry_run = false

# Comment attached to the commit. (default "")
commit_comment = ""
`

const registrySample = `
# URL of the registry search endpoint.
# (default "https://rest.db.ripe.net/search.json")
endpoint = "https://rest.db.ripe.net/search.json"

# Registry source. (default "ripe")
source = "ripe"

# Maximum time for a single HTTP attempt. (default "30s")
timeout = "30s"

# Number of attempts per query. Rate limited (429) and timed out attempts
# are retried. (default 3)
max_attempts = 3

# Treat "no entries found" (404) as an empty result instead of an error. The
# registry answers 404 for an AS number without route objects.
# (default false)
treat_not_found_as_empty = false

# User-Agent header sent with every request. (default "rifier")
user_agent = "rifier"
`

const resolverSample = `
# Include route6 objects. (default false)
ipv6 = false

# Drop repeated AS numbers and prefixes, keeping the first occurrence.
# (default false)
dedup = false

# Maximum AS-SET nesting depth. (default 64)
max_depth = 64
`
