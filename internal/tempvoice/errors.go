package tempvoice

import "errors"

// UserError is the family of user-action failures. The interaction boundary
// renders the message verbatim as an ephemeral reply and never logs these as
// unexpected.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

var (
	ErrNotConfigured = &UserError{
		"This server has not been set up yet. Ask the server administrators to configure the bot.",
	}
	ErrUnknownDiscord = &UserError{
		"An unknown Discord error occurred. Try again.\n*If the error persists, contact the bot support.*",
	}
	ErrNoRoom = &UserError{
		"**You have no voice channel you can manage.**\nCreate one first by joining a creator channel.",
	}
	ErrAlienInterface = &UserError{
		"**You are using the control interface from another temp channel's chat.**\n" +
			"Use the interface from your own temp channel chat, or from the shared one.",
	}
	ErrAlreadyOwner = &UserError{
		"You already manage a temp channel.\n\n*P.s. To reclaim rights to the old channel, delete the current one first.*",
	}
	ErrNotBanned = &UserError{
		"This user is not banned.",
	}
	ErrNumbersOnly = &UserError{
		"Only numeric values are allowed!",
	}
	ErrNoUsersInChannel = &UserError{
		"There is nobody in the channel except you.",
	}
	ErrRoomFull = &UserError{
		"You cannot publish an advertisement while your channel is full.",
	}
	ErrRequirePublic = &UserError{
		"Your channel must be \"Public\" to publish or edit an advertisement.",
	}
)

// IsUserError reports whether err belongs to the user-action family.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
