package version

const (
	AppName  = "TextJester"
	Version  = "0.3.1"
	Homepage = "https://github.com/text-jester/text-jester"
)
