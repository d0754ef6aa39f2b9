package service

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/contactbook/internal/logger"
	"gitlab.com/dirk.krummacker/contactbook/internal/model"
	"gitlab.com/dirk.krummacker/contactbook/internal/store"
)

// ContactStore is the storage the HTTP handlers work on. It is implemented by *store.Store.
type ContactStore interface {
	Insert(ctx context.Context, c model.Contact) (model.Contact, error)
	ListAll(ctx context.Context, order model.Ordering) ([]model.Contact, error)
	GetById(ctx context.Context, id int64) (model.Contact, error)
	Update(ctx context.Context, id int64, update model.ContactUpdate) (model.Contact, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, criteria model.SearchCriteria) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, reference model.Date, days int) ([]model.Contact, error)
}

// Options tune the router.
type Options struct {
	// RequestLogging writes one log line per request.
	RequestLogging bool

	// BirthdayWindow is the number of days after today that count as upcoming.
	BirthdayWindow int

	// Location determines what "today" is. Defaults to UTC.
	Location *time.Location

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// allowedAscending are the allowed values for the 'ascending' URL parameter.
var allowedAscending = []string{"true", "false"}

type handler struct {
	store ContactStore
	opts  Options
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(contacts ContactStore, log zerolog.Logger, opts Options) *gin.Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &handler{store: contacts, opts: opts}

	router := gin.New()
	router.Use(logger.RequestID(log))
	if opts.RequestLogging {
		router.Use(logger.RequestLogger())
	} else {
		log.Info().Msg("HTTP request logging is turned off")
	}
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c).Error().Interface("panic", recovered).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}))

	router.GET("/contacts/", h.findContacts)
	router.POST("/contacts/", h.createContact)
	router.GET("/contacts/search/", h.searchContacts)
	router.GET("/contacts/birthdays/", h.findUpcomingBirthdays)
	router.GET("/contacts/:id", h.findContactByID)
	router.PUT("/contacts/:id", h.updateContactByID)
	router.DELETE("/contacts/:id", h.deleteContactByID)
	return router
}

// findContacts responds with the list of all contacts as JSON.
//
// The URL parameter 'orderby' specifies the contact property by which the results shall be
// sorted. Valid values are 'id', 'first_name', 'last_name', 'email', 'phone', and 'birthday'.
// If it is omitted, the contacts are sorted by id. If the URL parameter 'ascending' is set to
// 'false' then the sort order is reversed.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts/"
//	> curl "http://localhost:8080/contacts/?orderby=birthday&ascending=false"
func (h *handler) findContacts(c *gin.Context) {
	order, ok := parseOrdering(c)
	if !ok {
		return
	}
	contacts, err := h.store.ListAll(c.Request.Context(), order)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// searchContacts responds with the contacts matching all given URL parameters. The parameters
// 'first_name', 'last_name' and 'email' are matched case-insensitively anywhere in the
// respective field. Without parameters all contacts are returned. Ordering works as for
// findContacts.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts/search/?first_name=an"
//	> curl "http://localhost:8080/contacts/search/?last_name=lee&email=example.com"
func (h *handler) searchContacts(c *gin.Context) {
	order, ok := parseOrdering(c)
	if !ok {
		return
	}
	criteria := model.SearchCriteria{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
		Order:     order,
	}
	contacts, err := h.store.Search(c.Request.Context(), criteria)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findUpcomingBirthdays responds with the contacts whose birthday is within the next days,
// today included. The optional URL parameter 'date' replaces today as the start of the window.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts/birthdays/"
//	> curl "http://localhost:8080/contacts/birthdays/?date=2024-12-28"
func (h *handler) findUpcomingBirthdays(c *gin.Context) {
	reference := model.DateOf(h.opts.Now().In(h.opts.Location))
	if s := c.Query("date"); s != "" {
		var err error
		reference, err = model.ParseDate(s)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid date parameter"})
			return
		}
	}
	contacts, err := h.store.UpcomingBirthdays(c.Request.Context(), reference, h.opts.BirthdayWindow)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// parseOrdering inspects the URL parameters 'orderby' and 'ascending'.
func parseOrdering(c *gin.Context) (model.Ordering, bool) {
	ascending := c.DefaultQuery("ascending", "true")
	if !slices.Contains(allowedAscending, ascending) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid ascending parameter"})
		return model.Ordering{}, false
	}
	order, err := model.NewOrdering(c.Query("orderby"), ascending == "true")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid orderby parameter"})
		return model.Ordering{}, false
	}
	return order, true
}

// createContact inserts the contact specified in the request's JSON into the database. It
// responds with the full contact data including the newly assigned id. The keys first_name,
// last_name and email are required, but their values may be empty strings.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/ --request "POST" --include --header "Content-Type: application/json" --data '{"first_name": "Hans", "last_name": "Wurst", "email": "hans@wurst.de", "birthday": "1969-03-02"}'
func (h *handler) createContact(c *gin.Context) {
	var input model.ContactUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindError(c)
		return
	}
	if input.MissingRequiredField() != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "first_name, last_name and email are required"})
		return
	}
	created, err := h.store.Insert(c.Request.Context(), input.Apply(model.Contact{}))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, created)
}

// findContactByID locates the contact whose ID value matches the id parameter of the request
// URL, then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56
func (h *handler) findContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.store.GetById(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID updates the values specified in the JSON (and only those) of the contact
// whose ID value matches the id parameter of the request URL, and responds with the new
// version of the contact. A value of null clears an optional field.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "81970"}'
//	> curl http://localhost:8080/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"birthday": null}'
func (h *handler) updateContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var update model.ContactUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithBindError(c)
		return
	}
	if field := update.RequiredFieldCleared(); field != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": field + " cannot be null"})
		return
	}
	contact, err := h.store.Update(c.Request.Context(), id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the
// request URL from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE"
func (h *handler) deleteContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"ok": true})
}

// parseID reads the id URL parameter. Ids that are not numbers cannot exist, so they are
// answered with NOT FOUND without asking the database.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// abortWithBindError answers a body that cannot be read into the expected JSON document.
func abortWithBindError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
}

// respondWithError answers ErrNotFound with NOT FOUND and every other error with INTERNAL
// SERVER ERROR.
func respondWithError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	_ = c.Error(err)
	logger.FromContext(c).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
