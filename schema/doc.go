// Package schema builds column and constraint fragments for CREATE TABLE
// statements.
//
// A Builder accumulates fluent calls and renders deterministic fragment
// lists with Build. Column modifiers always apply to the most recently
// declared column; foreign key amendments (References, OnDelete, OnUpdate)
// always apply to the most recently added FOREIGN KEY constraint.
//
// # Usage
//
//	b := schema.NewBuilder()
//	b.Integer("id").PrimaryKey().AutoIncrement()
//	b.Text("name").NotNull()
//	b.Integer("owner_id")
//	b.ForeignKey("owner_id").References("users.id").OnDelete("CASCADE")
//	cols, constraints, err := b.Build()
//
// Out-of-order foreign key amendments (OnDelete before References, or
// References with no foreign key) are silently dropped rather than
// reported. Callers rely on this; treat it as contract.
package schema
