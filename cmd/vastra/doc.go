// Command vastra is the marketplace API's CLI.
//
//	vastra serve            # start the API server
//	vastra route:list       # list API routes
//	vastra migrate          # run MongoDB migrations
//	vastra migrate:rollback
//	vastra migrate:status
//	vastra seed             # seed demo users and products
//	vastra queue:work       # run queue workers standalone
//
// Configuration comes from config.json, .env and the process environment,
// in that order of precedence.
package main
