// Package testutil provides testing utilities for the linkedin-oauth library,
// most notably LinkedInServer, a fake LinkedIn API backed by httptest.
package testutil
