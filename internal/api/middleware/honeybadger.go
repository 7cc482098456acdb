package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
	"github.com/sirupsen/logrus"
)

// HoneybadgerMiddleware reports panics and error responses to Honeybadger
// when HONEYBADGER_API_KEY is set; otherwise it is a pass-through.
// A recovered panic is re-raised so gin.Recovery still writes the response.
func HoneybadgerMiddleware(logger *logrus.Logger, env string) gin.HandlerFunc {
	apiKey := os.Getenv("HONEYBADGER_API_KEY")
	if apiKey == "" {
		logger.Info("Honeybadger is not active. To enable error reporting, set the HONEYBADGER_API_KEY environment variable.")
		return func(c *gin.Context) { c.Next() }
	}

	honeybadger.Configure(honeybadger.Configuration{APIKey: apiKey, Env: env})
	logger.Infof("Honeybadger error reporting is enabled (env '%s').", env)

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				honeybadger.Notify(fmt.Sprintf("Panic: %s %s", c.Request.Method, c.Request.URL.Path),
					c.Request, honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
				logger.Error("Recovered from panic, notified Honeybadger: ", rec)
				panic(rec)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if !reportable(status) {
			return
		}
		tag := "4XX"
		if status >= http.StatusInternalServerError {
			tag = "5XX"
		}
		honeybadger.Notify(fmt.Sprintf("HTTP %d: %s %s", status, c.Request.Method, c.Request.URL.Path),
			c.Request, honeybadger.Tags{tag, "http"})
		logger.Warnf("Honeybadger reported HTTP %d for %s %s", status, c.Request.Method, c.Request.URL.Path)
	}
}

// reportable skips expected client outcomes: missing resources and busy sync.
func reportable(status int) bool {
	switch {
	case status < http.StatusBadRequest:
		return false
	case status == http.StatusNotFound, status == http.StatusConflict:
		return false
	default:
		return true
	}
}
