package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/database"
)

type routeHandlers struct {
	healthHandler     healthHandler
	authHandler       authHandler
	articleHandler    articleHandler
	commentHandler    commentHandler
	projectHandler    projectHandler
	skillHandler      skillHandler
	experienceHandler experienceHandler
	messageHandler    messageHandler
	settingsHandler   settingsHandler
	uploadHandler     uploadHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, rt *router) *routeHandlers {
	return &routeHandlers{
		healthHandler:     newHealthHandler(database, rt.startupTime),
		authHandler:       newAuthHandler(rt.identity),
		articleHandler:    newArticleHandler(database, rt.images),
		commentHandler:    newCommentHandler(database),
		projectHandler:    newProjectHandler(database.ProjectRepo(), rt.images),
		skillHandler:      newSkillHandler(database.SkillRepo()),
		experienceHandler: newExperienceHandler(database.ExperienceRepo()),
		messageHandler:    newMessageHandler(database, rt.dispatcher),
		settingsHandler:   newSettingsHandler(database),
		uploadHandler:     newUploadHandler(rt.images),
	}
}

// limits holds the per-address limiters shared by the routes.
type limits struct {
	api     *addressLimiter
	auth    *addressLimiter
	contact *addressLimiter
}

func newLimits(production bool, apiMax, authMax, contactMax int) limits {
	if apiMax <= 0 {
		apiMax = 500
		if production {
			apiMax = 100
		}
	}
	if authMax <= 0 {
		authMax = 20
		if production {
			authMax = 5
		}
	}
	if contactMax <= 0 {
		contactMax = 5
	}

	return limits{
		api:     newAddressLimiter(apiMax, 15*time.Minute, "Too many requests from this IP, please try again later."),
		auth:    newAddressLimiter(authMax, 15*time.Minute, "Too many login attempts, please try again after 15 minutes."),
		contact: newAddressLimiter(contactMax, time.Hour, "Too many messages sent, please try again later."),
	}
}
