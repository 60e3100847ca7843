// Package catalog stores summaries of indexed map files in SQLite.
//
// Each map file gets one row in maps (counts, dialect, lint totals, parse
// error) plus per-texture and per-classname rows, so a level designer can
// ask which maps use a texture or contain a given entity class:
//
//	store, err := catalog.Open(cfg.Catalog, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	maps, err := store.List(ctx, catalog.Query{Texture: "*lava1"})
//
// The database is opened through the pure-Go modernc.org/sqlite driver.
package catalog
