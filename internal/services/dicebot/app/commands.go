package app

// Bot commands, matched after lowercasing and stripping any @botname suffix.
const (
	commandStart   = "start"
	commandHelp    = "help"
	commandYesOrNo = "yesorno"
)
