package app

import "context"

// Message is the part of an incoming chat message the bot reacts to.
type Message struct {
	ChatID    int64
	MessageID int
	// Private reports a one-to-one chat with the bot.
	Private bool
	Text    string
	// Command is the bot command name without the slash or bot mention.
	// Empty when the message is not a command.
	Command string
	// Args is the text after the command.
	Args string
}

// Reply is an HTML message answering a Message.
type Reply struct {
	ChatID  int64
	ReplyTo int
	Text    string
}

// Command describes a bot command shown in the client menu.
type Command struct {
	Name        string
	Description string
}

// Transport delivers messages to and from the chat platform.
type Transport interface {
	// Updates streams incoming messages until ctx ends or Stop is called.
	Updates(ctx context.Context) <-chan Message
	// Send delivers one reply.
	Send(ctx context.Context, reply Reply) error
	// SetCommands publishes the command menu.
	SetCommands(ctx context.Context, commands []Command) error
	// Stop ends the update stream.
	Stop()
}
