// Package all registers every datasource.Store scheme via blank imports.
package all

import (
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource/file"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/datasource/s3"
)
