package version

const (
	AppName        = "uMod"
	AppDescription = "Community moderation bot: pluggable features for message filtering, permits, and guild housekeeping"
	AppVersion     = "0.1.0"
)
