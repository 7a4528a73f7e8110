// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/schoolyard/examdesk/internal/app/system/questiongen"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/platform"
)

// DBDeps holds database and backend dependencies for the app.
//
// Redis and QuestionGen are optional; they are nil when not configured and
// every consumer handles that.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Redis *redis.Client

	Platform     *platform.Client
	WizardStates wizardstate.Store
	QuestionGen  *questiongen.Client
}
