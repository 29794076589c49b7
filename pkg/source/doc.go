// Package source loads string tables from YAML, JSON, TOML and go-i18n
// message files, and serves them from an fs.FS laid out as
// {culture}/{section}.{ext}.
//
// Documents nest maps into sections:
//
//	Errors:
//	  NotFound: Not found
//
// yields the key Section:Errors:Key:NotFound. A leaf whose name contains ':'
// is read as the String form of a line instead of a Key value.
package source
