/*
Package config loads and validates the options for the gather plugin.

	            +-------------+
	            |   Options   |
	            | files/output|
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |   HCL   |   |  JSON   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Picks a parser by file extension
- Accepts files as a single path or a list of paths
- Rejects missing or malformed values with errdefs.ConfigurationError

🔄 Flow:
1. Reads the config file
2. Parses format-specific syntax
3. Validates, cleans paths and applies defaults

🔍 Example:

	opts, err := config.Load(ctx, ".gather.yaml")
	if err != nil {
		return err
	}
	plugin, err := gather.New(*opts, osfs.New("/"), nil)
*/
package config
