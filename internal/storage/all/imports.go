// Package all links every built-in warehouse backend into a binary. It
// exists for side effects only: each backend registers its factory and SQL
// dialect with the storage package from init.
//
//	import _ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/all"
//
// Kinds made available: postgres, sqlite, mssql, mysql, duckdb.
package all

import (
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/duckdb"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/mssql"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/mysql"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/postgres"
	_ "github.com/Ramanathantrb/Datalakes-with-spark/internal/storage/sqlite"
)
