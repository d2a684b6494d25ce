// Package domain models iNaturalist observation data and the "registro del
// día" posts built from it.
//
// # Data Source
//
// Observations come from the iNaturalist v1 API (https://api.inaturalist.org).
// The bot asks for research-grade observations created on a single calendar
// day inside one place (place 7259, Uruguay, by default) with names localized
// to es-AR. Only species-rank records take part in ranking; subspecies,
// varieties and anything else are dropped by [SpeciesOnly].
//
// # Rarity
//
// Each observed taxon is joined with its species count inside the place. The
// taxa sharing the lowest count form the rarest set:
//
//	counts:  Aves A=1, Plantae B=1, Insecta C=4
//	rarest:  [A, B]      (every tie is kept, in observation order)
//
// Only the rarest set gets a second, platform-wide count lookup. The number
// reported as "elsewhere" is the difference between both counts:
//
//	CountWorld = globalCount - regionalCount
//
// A negative difference means the two upstream queries disagree and is
// reported as [ErrInconsistentCountData].
//
// # Posts
//
// Posts are HTML fragments accepted by Mastodon-compatible servers:
// <p> <b> <i> <blockquote> <ul>/<li> <ol> <a href> and <br> line breaks.
// A rarest set of one taxon renders a single post. A larger set renders a
// thread: one header listing every species followed by one post per taxon,
// numbered "🧵 k/N+1".
package domain
