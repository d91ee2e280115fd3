package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/useradmin/internal/config"
	"github.com/baechuer/useradmin/internal/domain"
	"github.com/baechuer/useradmin/internal/infrastructure/db/postgres"
	"github.com/baechuer/useradmin/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/useradmin/internal/infrastructure/redis"
	"github.com/baechuer/useradmin/internal/runner"
)

// postgresConnector opens one pool per run; closing the store closes the pool.
func postgresConnector(cfg *config.Config, lg zerolog.Logger) runner.Connector {
	return func(ctx context.Context) (runner.UserStore, error) {
		db, err := config.NewDB(ctx, cfg.DBAddr, cfg.DBDebug, lg)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		return postgres.NewUserStore(db), nil
	}
}

// revokeSessionsHook invalidates the user's refresh tokens after a credential or role change.
func revokeSessionsHook(addr, password string, db int, lg zerolog.Logger) func(context.Context, runner.Report) error {
	return func(ctx context.Context, rep runner.Report) error {
		if !rep.Changed("password_hash") && !rep.Changed(string(domain.FieldRole)) {
			return nil
		}

		c := redis.New(ctx, redis.Options{Addr: addr, Password: password, DB: db})
		defer c.Close()

		if err := c.Ping(ctx); err != nil {
			return err
		}
		ver, err := redis.NewSessionRevoker(c).RevokeAll(ctx, rep.UserID)
		if err != nil {
			return err
		}
		lg.Info().
			Str("user_id", rep.UserID).
			Int64("rtver", ver).
			Msg("sessions revoked")
		return nil
	}
}

// publishEventHook announces the update on the events exchange.
func publishEventHook(url string, lg zerolog.Logger) func(context.Context, runner.Report) error {
	return func(ctx context.Context, rep runner.Report) error {
		pub, err := rabbitmq.NewPublisher(url)
		if err != nil {
			return domain.ErrRabbitUnavailable(err)
		}
		defer pub.Close()

		err = pub.PublishUserUpdated(ctx, rabbitmq.UserUpdatedEvent{
			Action: rep.Action,
			UserID: rep.UserID,
			Email:  rep.Email,
			Fields: rep.ChangedFields(),
		})
		if err != nil {
			return domain.ErrRabbitUnavailable(err)
		}
		lg.Debug().Str("routing_key", rabbitmq.RoutingKeyUserUpdated).Msg("event published")
		return nil
	}
}
