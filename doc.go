package simpledb

/*
SimpleDB is an in-memory key/value store with nested transactions, intended for teaching and
experimentation. It is not suitable for production use.

It speaks a small line protocol (SET/GET/UNSET/NUMEQUALTO plus BEGIN/ROLLBACK/COMMIT/END) over a
single stdin/stdout session, and keeps an auxiliary reverse index so that NUMEQUALTO answers "how
many keys currently hold this value" in constant time, even while transactions are open.

Building SimpleDB produces one executable: simpledb-server, which runs the session either in batch
mode (reading commands from stdin) or as an interactive prompt.

The module is organized into the following packages, all under `kv`:

* `config`: runtime configuration (defaults, environment, TOML file).
* `freq`: the reverse value-frequency index, in two flavors (committed counts and transaction deltas).
* `store`: the committed base store and the Modify batch types used to fold transactions into it.
* `txn`: the nested transaction stack and its layered per-key write history.
* `engine`: the facade tying store and transaction stack together.
* `server`: command decoding and the line-protocol session.
*/
