package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/platform/metrics"
	"shipment-emissions-service/internal/ports"
	"shipment-emissions-service/internal/services"
)

type Options struct {
	// AverageSpeedKmPerH drives the estimated travel time in results.
	AverageSpeedKmPerH float64
	Metrics            ports.MetricsSink
}

// Assistant maps free-text messages onto shipment requests one question at a
// time. It is safe for concurrent use across sessions.
type Assistant struct {
	calc     *services.Calculator
	geocoder ports.Geocoder
	store    *SessionStore
	speedKmh float64
	metrics  ports.MetricsSink
	newID    func() string
}

// NewAssistant builds an assistant. geocoder may be nil, in which case only
// "lat,lon" locations are understood.
func NewAssistant(calc *services.Calculator, geocoder ports.Geocoder, store *SessionStore, opts Options) *Assistant {
	if opts.AverageSpeedKmPerH <= 0 {
		opts.AverageSpeedKmPerH = 60
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NopSink{}
	}
	return &Assistant{
		calc:     calc,
		geocoder: geocoder,
		store:    store,
		speedKmh: opts.AverageSpeedKmPerH,
		metrics:  opts.Metrics,
		newID:    uuid.NewString,
	}
}

type Reply struct {
	SessionID string
	Stage     Stage
	Text      string
}

// Handle advances the conversation for sessionID. An unknown or expired
// session starts over with the welcome message and a fresh id.
func (a *Assistant) Handle(ctx context.Context, sessionID, message string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}

	unlock := a.store.Lock(sessionID)
	defer unlock()

	sess, ok := a.store.Get(sessionID)
	if !ok {
		sess = newSession(a.newID())
		a.store.Put(sess)
		a.metrics.RecordChatMessage(string(StageWelcome))
		return Reply{SessionID: sess.ID, Stage: sess.Stage, Text: welcomeMessage}, nil
	}

	a.metrics.RecordChatMessage(string(sess.Stage))
	message = strings.TrimSpace(message)

	var text string
	if isRestart(message) {
		sess = newSession(sess.ID)
		text = welcomeMessage
	} else {
		text = a.advance(ctx, &sess, message)
	}

	if sess.Stage == "" {
		a.store.Delete(sess.ID)
	} else {
		a.store.Put(sess)
	}
	return Reply{SessionID: sess.ID, Stage: sess.Stage, Text: text}, nil
}

func (a *Assistant) advance(ctx context.Context, sess *Session, message string) string {
	lower := strings.ToLower(message)

	switch sess.Stage {
	case StageWelcome:
		switch lower {
		case "yes", "y", "sure", "okay", "ok", "start":
			sess.Stage = StageOrigin
			return originPrompt
		}
		return notReadyMessage

	case StageOrigin:
		c, reply, ok := a.location(ctx, "origin", message)
		if !ok {
			return reply
		}
		sess.Origin = c
		sess.Stage = StageDestination
		return fmt.Sprintf("Perfect! I found the coordinates (%.6f, %.6f). Now, please provide the destination location (city name or coordinates):", c.Lat, c.Lon)

	case StageDestination:
		c, reply, ok := a.location(ctx, "destination", message)
		if !ok {
			return reply
		}
		sess.Destination = c
		sess.Stage = StageWeight
		return fmt.Sprintf("Great! I found the coordinates (%.6f, %.6f). How much does your shipment weigh (in kg)?", c.Lat, c.Lon)

	case StageWeight:
		raw := strings.TrimSpace(strings.TrimSuffix(lower, "kg"))
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
			return weightRetryPrompt
		}
		if w <= 0 {
			return weightPositivePrompt
		}
		sess.WeightKg = w
		sess.Stage = StageMaterial
		return materialMenu(a.calc.Reference().Materials(), "What packaging material would you like to use?")

	case StageMaterial:
		m, ok := a.material(message)
		if !ok {
			return materialMenu(a.calc.Reference().Materials(), "I didn't recognize that material.")
		}
		sess.Material = m
		return a.calculate(ctx, sess)

	case StageResults:
		switch lower {
		case "1", "yes", "calculate", "another":
			*sess = newSession(sess.ID)
			sess.Stage = StageOrigin
			return originPrompt
		case "2", "recommendations", "eco":
			return formatRecommendations(sess.LastResult, sess.WeightKg, a.calc.Reference().Materials())
		case "3", "end", "quit", "exit", "no":
			sess.Stage = ""
			return goodbyeMessage
		}
		return "Please choose an option:\n1. Calculate another shipment\n2. Get eco-friendly recommendations\n3. End conversation"
	}

	*sess = newSession(sess.ID)
	return welcomeMessage
}

func (a *Assistant) location(ctx context.Context, field, message string) (domain.Coordinates, string, bool) {
	c, err := services.ResolveLocation(ctx, a.geocoder, field, message)
	if err == nil {
		return c, "", true
	}

	var ce *domain.InvalidCoordinateError
	if errors.As(err, &ce) {
		return domain.Coordinates{}, fmt.Sprintf("Those coordinates don't look right (%s). Please enter latitude,longitude like '51.5074,-0.1278':", ce.Reason), false
	}
	if !errors.Is(err, domain.ErrLocationNotFound) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("field", field).Msg("chat location lookup failed")
	}
	return domain.Coordinates{}, locationRetryPrompt, false
}

// material accepts a menu number, a material name or an alias.
func (a *Assistant) material(message string) (string, bool) {
	materials := a.calc.Reference().Materials()
	if n, err := strconv.Atoi(message); err == nil {
		if n >= 1 && n <= len(materials) {
			return materials[n-1].MaterialName, true
		}
		return "", false
	}
	m, err := a.calc.Reference().Material(message)
	if err != nil {
		return "", false
	}
	return m.MaterialName, true
}

func (a *Assistant) calculate(ctx context.Context, sess *Session) string {
	res, err := a.calc.Calculate(ctx, domain.ShipmentRequest{
		Origin:      sess.Origin,
		Destination: sess.Destination,
		WeightKg:    sess.WeightKg,
		Material:    sess.Material,
	})
	if err != nil {
		if !domain.IsRequestError(err) {
			zerolog.Ctx(ctx).Error().Err(err).Str("session_id", sess.ID).Msg("chat calculation failed")
		}
		*sess = newSession(sess.ID)
		return fmt.Sprintf("I encountered an error while calculating: %v\nWould you like to try again? (yes/no)", err)
	}

	sess.LastResult = res
	sess.Stage = StageResults
	return formatResults(res, a.speedKmh)
}

func isRestart(message string) bool {
	switch strings.ToLower(message) {
	case "restart", "start over", "new":
		return true
	}
	return false
}
