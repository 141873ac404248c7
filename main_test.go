package main

import (
	"testing"

	"WorkForce360/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRun_FullCoverage(t *testing.T) {
	isTest = true
	defer func() { isTest = false }()

	var capturedOpts server.Options

	// intercept options
	startServer = func(opts server.Options) {
		capturedOpts = opts
	}

	// run main logic
	main()
	run()

	assert.False(t, capturedOpts.JobsEnabled)
	assert.False(t, capturedOpts.MigrationEnabled)
	assert.True(t, capturedOpts.MongoEnabled)

	capturedOpts.JobsHandler(nil)
	capturedOpts.MigrationHandler(nil)
	r := gin.New()
	capturedOpts.WebServerPreHandler(r, nil)
	assert.Empty(t, r.Routes())
}

func TestAllowsAnyOrigin(t *testing.T) {
	assert.True(t, allowsAnyOrigin([]string{"*"}))
	assert.False(t, allowsAnyOrigin([]string{"https://hr.example.com"}))
}
