package app

import "fmt"

type errUnknownUser string

func (e errUnknownUser) Error() string {
	return fmt.Sprintf("user %s does not exist, create it first", string(e))
}
