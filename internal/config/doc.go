// Package config loads vbind.json.
//
// A project configuration is found by walking up from a start directory to
// the first vbind.json. Missing fields take defaults; command line flags are
// applied on top by the CLI.
//
// # Example
//
//	{
//	  "prefix": "v-",
//	  "collapseText": false,
//	  "missingValue": "",
//	  "log": {"level": "info"},
//	  "serve": {"addr": "localhost:3000", "readTimeout": "60s"},
//	  "metrics": {"namespace": "vbind"},
//	  "s3": {"region": "us-east-1"}
//	}
package config
