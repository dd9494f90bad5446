package sqlite

// Table and column names shared by the schema, the queries below and the
// operator tools. The values must match schema.sql.
const (
	TableUsers = "users"

	ColUserID       = "id"
	ColUserName     = "username"
	ColUserEmail    = "email"
	ColUserPassword = "password"
)

const (
	TableWatchList = "watchlist"

	ColEntryID      = "id"
	ColEntryUserID  = "user_id"
	ColEntryMovieID = "movie_id"
	ColEntryTitle   = "title"
	ColEntryPoster  = "poster_ref"
	ColEntryStatus  = "status"
)

// userColumns is the ordered column list for user queries.
// Must match the scan order in scanUser.
const userColumns = ColUserID + ", " + ColUserName + ", " + ColUserEmail + ", " + ColUserPassword

// entryColumns is the ordered column list for watch-list queries.
// Must match the scan order in scanEntry.
const entryColumns = ColEntryID + ", " + ColEntryUserID + ", " + ColEntryMovieID + ", " +
	ColEntryTitle + ", " + ColEntryPoster + ", " + ColEntryStatus

// Newest entries first. Every listing uses the same order so pages
// concatenate to the full list.
const entryOrder = ` ORDER BY ` + ColEntryID + ` DESC`
