// Package admin provides operational helpers built on the fluentlite
// facade: versioned migrations, backup-by-copy, schema introspection and
// engine maintenance.
//
// Everything here goes through the facade's public operations; the only
// direct engine access is pragma-style metadata queries and file
// statistics.
//
// # Migrations
//
//	migrator := admin.NewMigrator(db)
//	results, err := migrator.Run(ctx, []admin.Migration{
//	    {Version: 1, Name: "create_users", Up: createUsers, Down: dropUsers},
//	})
//
// Migration batches are all-or-nothing: a failure anywhere rolls back the
// whole batch. Applied versions are tracked in the fluentlite_migrations
// table and never re-applied.
//
// # Backup
//
// Backup is a direct OS file copy, not a hot backup. A write transaction
// open during the copy can make the copy inconsistent.
package admin
