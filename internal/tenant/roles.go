// Copyright 2026 The LexDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tenant

// Roles carried in access tokens. Tenant context never implies platform
// privileges; only RolePlatformAdmin reaches the admin console.
const (
	RoleMember        = "member"
	RoleOwner         = "owner"
	RolePlatformAdmin = "platform_admin"
)

// ValidRole reports whether role is one of the defined roles.
func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleOwner, RolePlatformAdmin:
		return true
	}
	return false
}
