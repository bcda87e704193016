// Package config manages configuration parsing and validation for engfix.
//
// 	            +-------------+
// 	            |   Config    |
// 	            | (Settings)  |
// 	            +------+------+
// 	                   |
// 	      +------------+------------+
// 	      |            |            |
// 	+-----+-----+ +----+----+ +-----+-----+
// 	|   YAML    | |  JSON   | |    HCL    |
// 	|  Loader   | | Loader  | |  Loader   |
// 	+-----------+ +---------+ +-----------+
//
// 🎯 Purpose:
// - Chooses the spelling target and file encoding
// - Maps file extensions to fixer modes and languages
// - Filters files with include/exclude globs
// - Adds word lists on top of the embedded dictionary
//
// 🔄 Flow:
// 1. Find looks for .engfix.{yaml,yml,json,hcl} in a directory
// 2. LoadConfig picks a loader by extension (unknown fields are errors)
// 3. Validate fills in defaults and resolves names to typed values
// 4. Callers ask RuleFor(path) and Included(rel) per file
//
// 🔍 Example (.engfix.hcl):
//
// 	target   = "uk"
// 	workers  = 8
// 	exclude  = ["**/vendor/**"]
//
// 	rule {
// 	  extensions = [".py"]
// 	  mode       = "permissive"
// 	  language   = "python"
// 	}
//
// 	rule {
// 	  extensions = [".txt", ".md"]
// 	  mode       = "text"
// 	}
//
// When no rule is configured, DefaultRules applies.
package config
