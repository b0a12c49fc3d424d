/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- Error: *.err
- Counters of business facts: *.count
*/
package metrics

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/x-xyz/editionmarket/base/env"
	"github.com/x-xyz/editionmarket/base/log"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// default: true
	withPodName bool
	// default: datadog
	client statsCli
}

// WithoutPodName drops the pod tag; use it when grouping by pod is unnecessary
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// WithLogClient writes metrics to the debug log instead of the datadog agent
func WithLogClient() Option {
	return func(o *opt) {
		o.client = &LogClient{}
	}
}

// New creates a metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	ddTags := []string{
		// using host removes all tags associated with host
		// ref: https://docs.datadoghq.com/developers/dogstatsd/data_types/#host-tag-key
		"host:",
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}

	return &Metrics{
		pkgName: pkgName,
		tags:    ddTags,
		client:  o.client,
	}
}

// Metrics prefixes every key with the package name and fans out to a statsd compatible client.
type Metrics struct {
	pkgName string
	tags    []string
	// nil means the shared datadog clients
	client statsCli
}

func (mt *Metrics) cli() statsCli {
	if mt.client != nil {
		return mt.client
	}
	return nextDDClient()
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + `.` + key
}

func (mt *Metrics) recoverBump(fn, key string, tags []string) {
	if err := recover(); err != nil {
		log.Log().WithFields(log.Fields{
			"err":  err,
			"func": fn,
			"key":  mt.key(key) + "#" + strings.Join(tags, "#"),
		}).Error("metrics panic")
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverBump("BumpAvg", key, tags)
	if err := mt.cli().Gauge(mt.key(key), val, append(mt.tags, parseTag(tags)...), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpAvg"}).Error("Bump fail")
	}
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverBump("BumpSum", key, tags)
	if err := mt.cli().Count(mt.key(key), int64(val), append(mt.tags, parseTag(tags)...), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpSum"}).Error("Bump fail")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverBump("BumpHistogram", key, tags)
	if err := mt.cli().Histogram(mt.key(key), val, append(mt.tags, parseTag(tags)...), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpHistogram"}).Error("Bump fail")
	}
}

// BumpTime starts a timer; call End() on the result to record the elapsed time:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		mt:    mt,
		start: time.Now(),
		key:   key,
		tags:  tags,
	}
}

type timeTracker struct {
	mt    *Metrics
	start time.Time
	key   string
	tags  []string
}

func (t *timeTracker) End() {
	defer t.mt.recoverBump("BumpTime", t.key, t.tags)
	d := time.Since(t.start)
	msec := float64(d/time.Millisecond) + float64(d%time.Millisecond)*1e-6
	if err := t.mt.cli().TimeInMilliseconds(t.mt.key(t.key), msec, append(t.mt.tags, parseTag(t.tags)...), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": t.key, "val": msec, "func": "BumpTime"}).Error("Bump fail")
	}
}

func parseTag(tags []string) []string {
	if tags == nil {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}
