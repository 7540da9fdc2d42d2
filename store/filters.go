package store

import (
	"go.mongodb.org/mongo-driver/bson"

	models "github.com/phillip/nonprofit-site-go/models"
)

// BSON translations of the model filters. Each must select exactly the
// documents the filter's Match method accepts.

func eventQuery(f models.EventFilter) bson.M {
	switch f {
	case models.EventsActive:
		return bson.M{"isArchived": bson.M{"$ne": true}}
	case models.EventsArchived:
		return bson.M{"isArchived": true}
	}
	return bson.M{}
}

func messageQuery(f models.MessageFilter) bson.M {
	switch f {
	case models.MessagesActive:
		return bson.M{"status": models.MessageActive}
	case models.MessagesUnread:
		return bson.M{"status": models.MessageActive, "isRead": false}
	case models.MessagesRead:
		return bson.M{"status": models.MessageActive, "isRead": true}
	case models.MessagesArchived:
		return bson.M{"status": models.MessageArchived}
	case models.MessagesSpam:
		return bson.M{"status": models.MessageSpam}
	}
	return bson.M{}
}

func registrationQuery(f models.RegistrationFilter) bson.M {
	q := bson.M{}
	if f.EventID != "" {
		q["eventId"] = f.EventID
	}
	if !f.Since.IsZero() {
		q["registeredAt"] = bson.M{"$gte": f.Since}
	}
	return q
}

func applicationQuery(f models.ApplicationFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.OpportunityID != "" {
		q["opportunityId"] = f.OpportunityID
	}
	return q
}

func projectQuery(f models.ProjectFilter) bson.M {
	switch len(f.Statuses) {
	case 0:
		return bson.M{}
	case 1:
		return bson.M{"status": f.Statuses[0]}
	}
	return bson.M{"status": bson.M{"$in": f.Statuses}}
}

func userQuery(f models.UserFilter) bson.M {
	if f.Role == "" {
		return bson.M{}
	}
	return bson.M{"role": f.Role}
}

// projectUpdate is the $set patch plus $unset for dates cleared with "".
func projectUpdate(p models.ProjectPatch) bson.M {
	update := bson.M{"$set": p}
	unset := bson.M{}
	if p.ClearStartDate {
		unset["startDate"] = ""
	}
	if p.ClearEndDate {
		unset["endDate"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
