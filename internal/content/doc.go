// Package content holds the field-level rules shared by every content type on
// the site: slug generation, excerpts, the featured ordinal, publication and
// moderation states, and the small formatting helpers used by the pages.
package content
