package onboarding

import (
	"fmt"
	"html"

	"contacts-crm/internal/models"
)

const joinRequestSubject = "Join MC Request"

// leaderNotification builds the message telling a cell group leader that a person asked to join
func leaderNotification(req models.CreatePersonRequest, closest models.ClosestGroup) (models.Notification, error) {
	leader, err := models.ParseGroupLeader(closest.GroupMeta)
	if err != nil {
		return models.Notification{}, err
	}

	residence := ""
	if req.Residence != nil {
		residence = req.Residence.Description
	}
	name := req.FirstName + " " + req.LastName

	body := fmt.Sprintf(`
<h3>Hello %s,</h3><br/>
<h4>I hope all is well on your end.</h4><br/>
<p>%s who lives in %s,
would like to join your Missional Community %s.<br/>
You can reach %s on %s or %s.</p><br/>
<p>Cheers!</p>
`,
		html.EscapeString(leader.Name),
		html.EscapeString(name), html.EscapeString(residence),
		html.EscapeString(closest.GroupName),
		html.EscapeString(req.FirstName), html.EscapeString(req.Phone), html.EscapeString(req.Email))

	text := fmt.Sprintf(
		"Hello %s,\n\n%s who lives in %s would like to join your Missional Community %s.\n"+
			"You can reach %s on %s or %s.\n\nCheers!",
		leader.Name, name, residence, closest.GroupName, req.FirstName, req.Phone, req.Email)

	return models.Notification{
		To:       leader.Email,
		Phone:    leader.Phone,
		Subject:  joinRequestSubject,
		HTMLBody: body,
		Text:     text,
	}, nil
}
