// Package searchintent embeds the search intent classifier in a Go program.
//
// It turns free text typed into a directory search box into the canonical
// page it should land on:
//
//	client, _ := searchintent.New(ctx,
//	    searchintent.WithEntitiesFile("entities.yaml"),
//	)
//	defer client.Close()
//
//	res, _ := client.Classify(ctx, "manchester washing machine repair", searchintent.FilterRepair)
//	// res.Type == "repair-place"
//	// res.URL  == "/england/manchester/washing-machine-repair/"
//
// Entities come from an in-memory set (WithEntities, WithEntitiesFile) or
// from PostgreSQL (WithPostgres), optionally behind a Redis cache
// (WithRedisCache). Slug conversions are available without a client through
// NewCanonicalizer.
package searchintent
