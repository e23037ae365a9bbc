package subgraph

import (
	"fmt"

	"github.com/jensneuse/abstractlogger"
)

// DefaultLinkURL is the federation version the produced schema links to
const DefaultLinkURL = "https://specs.apollo.dev/federation/v2.5"

// MarkerPolicy selects which join__type markers of a type are used for its classification.
// A composed type carries one marker per graph contributing to it.
type MarkerPolicy int

const (
	// MarkerPolicyFirst classifies a type by its first marker only.
	// Keys declared on later markers are ignored.
	MarkerPolicyFirst MarkerPolicy = iota
	// MarkerPolicyAllKeys emits one @key per distinct key found on any marker of the type.
	MarkerPolicyAllKeys
)

// CollisionPolicy decides what happens when the input already declares a name the extractor synthesizes.
type CollisionPolicy int

const (
	// CollisionPolicyError fails the extraction with an external error naming the colliding declaration.
	CollisionPolicyError CollisionPolicy = iota
	// CollisionPolicyReplace drops the declaration of the input in favour of the synthesized one.
	CollisionPolicyReplace
)

// EmptyEntitiesPolicy decides how a schema without any entity is scaffolded.
type EmptyEntitiesPolicy int

const (
	// EmptyEntitiesKeep declares the _Entity union without members and the _entities field.
	EmptyEntitiesKeep EmptyEntitiesPolicy = iota
	// EmptyEntitiesOmit declares neither the _Entity union nor the _entities field.
	EmptyEntitiesOmit
)

var markerPolicyNames = map[MarkerPolicy]string{
	MarkerPolicyFirst:   "first",
	MarkerPolicyAllKeys: "all-keys",
}

var collisionPolicyNames = map[CollisionPolicy]string{
	CollisionPolicyError:   "error",
	CollisionPolicyReplace: "replace",
}

var emptyEntitiesPolicyNames = map[EmptyEntitiesPolicy]string{
	EmptyEntitiesKeep: "keep",
	EmptyEntitiesOmit: "omit",
}

func (p MarkerPolicy) String() string {
	if name, ok := markerPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("MarkerPolicy(%d)", int(p))
}

func (p CollisionPolicy) String() string {
	if name, ok := collisionPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("CollisionPolicy(%d)", int(p))
}

func (p EmptyEntitiesPolicy) String() string {
	if name, ok := emptyEntitiesPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("EmptyEntitiesPolicy(%d)", int(p))
}

func ParseMarkerPolicy(name string) (MarkerPolicy, error) {
	for policy, policyName := range markerPolicyNames {
		if policyName == name {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("unknown marker policy '%s', expected one of first, all-keys", name)
}

func ParseCollisionPolicy(name string) (CollisionPolicy, error) {
	for policy, policyName := range collisionPolicyNames {
		if policyName == name {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("unknown collision policy '%s', expected one of error, replace", name)
}

func ParseEmptyEntitiesPolicy(name string) (EmptyEntitiesPolicy, error) {
	for policy, policyName := range emptyEntitiesPolicyNames {
		if policyName == name {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("unknown empty entities policy '%s', expected one of keep, omit", name)
}

type options struct {
	linkURL         string
	markerPolicy    MarkerPolicy
	collisionPolicy CollisionPolicy
	emptyEntities   EmptyEntitiesPolicy
	logger          abstractlogger.Logger
}

type Option func(options *options)

func WithLinkURL(url string) Option {
	return func(options *options) {
		options.linkURL = url
	}
}

func WithMarkerPolicy(policy MarkerPolicy) Option {
	return func(options *options) {
		options.markerPolicy = policy
	}
}

func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(options *options) {
		options.collisionPolicy = policy
	}
}

func WithEmptyEntities(policy EmptyEntitiesPolicy) Option {
	return func(options *options) {
		options.emptyEntities = policy
	}
}

func WithLogger(logger abstractlogger.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}
