package bot

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

func isPermissionError(err error) bool {
	return isRESTStatus(err, http.StatusForbidden)
}

func isNotFoundError(err error) bool {
	return isRESTStatus(err, http.StatusNotFound)
}

func isRESTStatus(err error, status int) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return false
	}
	return rest.Response != nil && rest.Response.StatusCode == status
}
