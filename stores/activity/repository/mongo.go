package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/database/mongoclient"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/base/ptr"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/activity"
	"github.com/x-xyz/editionmarket/domain/market"
	"github.com/x-xyz/editionmarket/service/query"
)

// findFilter holds the equality filters of FindAllOptions, nil fields are left out
type findFilter struct {
	Scope   *market.Scope   `bson:"scope,omitempty"`
	KeyId   *string         `bson:"keyId,omitempty"`
	TokenId *string         `bson:"tokenId,omitempty"`
	Account *domain.Address `bson:"accounts,omitempty"`
}

func makeFindQuery(opts activity.FindAllOptions) (bson.M, error) {
	filter := findFilter{
		TokenId: opts.TokenId,
		Account: opts.Account,
	}
	if opts.Key != nil {
		filter.Scope = &opts.Key.Scope
		filter.KeyId = ptr.String(opts.Key.Id)
	}

	qry, err := mongoclient.MakeBsonM(filter)
	if err != nil {
		return nil, err
	}

	if len(opts.Types) > 1 {
		qry["type"] = bson.M{"$in": opts.Types}
	} else if len(opts.Types) > 0 {
		qry["type"] = opts.Types[0]
	}

	return qry, nil
}

type activityRepo struct {
	q query.Mongo
}

func NewActivityRepo(q query.Mongo) activity.Repo {
	return &activityRepo{q: q}
}

// EnsureIndexes creates the indexes FindAll relies on
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	for _, keys := range [][]string{
		{"scope", "keyId", "-time"},
		{"accounts", "-time"},
		{"tokenId", "-time"},
		{"type", "-time"},
	} {
		if err := q.EnsureIndex(c, domain.TableActivities, false, keys...); err != nil {
			return err
		}
	}
	return nil
}

func (r *activityRepo) Insert(c ctx.Ctx, a *activity.Activity) error {
	err := r.q.Insert(c, domain.TableActivities, a)
	if err == query.ErrDuplicateKey {
		c.WithField("id", a.Id).Info("activity already recorded")
		return nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"activity": a,
			"err":      err,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *activityRepo) FindAll(c ctx.Ctx, optFns ...activity.FindAllOptionsFunc) ([]*activity.Activity, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("activity.GetFindAllOptions failed")
		return nil, err
	}
	qry, err := makeFindQuery(opts)
	if err != nil {
		c.WithField("err", err).Error("makeFindQuery failed")
		return nil, err
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}

	res := []*activity.Activity{}
	if err := r.q.Search(c, domain.TableActivities, offset, limit, "-time", qry, &res); err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *activityRepo) Count(c ctx.Ctx, optFns ...activity.FindAllOptionsFunc) (int, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("activity.GetFindAllOptions failed")
		return 0, err
	}
	qry, err := makeFindQuery(opts)
	if err != nil {
		c.WithField("err", err).Error("makeFindQuery failed")
		return 0, err
	}

	cnt, err := r.q.Count(c, domain.TableActivities, qry)
	if err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}
