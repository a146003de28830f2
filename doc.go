// Package fluentlite is a fluent convenience layer over an embedded
// SQLite database.
//
// It builds and executes CREATE TABLE, SELECT, INSERT, UPDATE, DELETE and
// COUNT statements without hand-written SQL strings, and adds light
// operational helpers (migrations, backups, introspection) in the admin
// subpackage. The engine itself — durability, locking, query execution —
// belongs entirely to SQLite; this layer only renders deterministic SQL
// text with correctly ordered parameter binding.
//
// # Usage
//
//	db := fluentlite.New("./data/app.db", fluentlite.Options{Logging: true})
//	if err := db.Connect(ctx); err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	err := db.CreateTable(ctx, "users", func(t *schema.Builder) {
//	    t.Integer("id").PrimaryKey().AutoIncrement()
//	    t.Text("name").NotNull()
//	    t.Boolean("active").Default(true)
//	}, nil)
//
//	res, err := db.Insert(ctx, "users", fluentlite.Record{
//	    "name":   "ada",
//	    "active": true,
//	})
//
//	rows, err := db.Find(ctx, "users", fluentlite.Conditions{
//	    "active": true,
//	}, &fluentlite.FindOptions{OrderBy: "name ASC", Limit: 20})
//
// # Concurrency
//
// A facade holds one logical connection. Operations are expected to be
// serialized by the caller; concurrent use relies entirely on the
// engine's busy-timeout behaviour. Transactions are non-reentrant.
//
// # Value preparation
//
// Insert and Update normalize bound values: time.Time becomes an
// ISO-8601 string, booleans become 0/1 integers, structured values
// (maps, slices, structs) become JSON text, nil becomes NULL. Reads
// return what the engine stored — a boolean true inserted is read back
// as the integer 1.
package fluentlite
