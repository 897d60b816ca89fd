package pep440

// testing/quick generators for this package's types.

import (
	"math/rand"
	"reflect"
	"testing/quick"

	"k8s.io/apimachinery/pkg/util/intstr"
)

func randBool(rand *rand.Rand) bool {
	return rand.Intn(2) == 1
}

// randN returns a small non-negative segment numeral.
func randN(rand *rand.Rand, size int) int {
	if size < 1 {
		size = 1
	}
	return rand.Intn(size * 10)
}

func (v Version) generate(rand *rand.Rand, size int) Version {
	if randBool(rand) {
		v.Epoch = randN(rand, size)
	}
	v.Release = make([]int, 1+rand.Intn(4))
	for i := range v.Release {
		v.Release[i] = randN(rand, size)
	}
	if randBool(rand) {
		letters := []string{"a", "b", "rc"}
		v.Pre = &PreRelease{
			L: letters[rand.Intn(len(letters))],
			N: randN(rand, size),
		}
	}
	if randBool(rand) {
		n := randN(rand, size)
		v.Post = &n
	}
	if randBool(rand) {
		n := randN(rand, size)
		v.Dev = &n
	}
	if randBool(rand) {
		local := make([]intstr.IntOrString, 1+rand.Intn(3))
		for i := range local {
			if randBool(rand) {
				local[i] = intstr.FromInt(randN(rand, size))
			} else {
				seg := make([]byte, 1+rand.Intn(5))
				for j := range seg {
					seg[j] = byte('a' + rand.Intn(26))
				}
				local[i] = intstr.FromString(string(seg))
			}
		}
		v.Local = local
	}
	return v
}

// Generate implements testing/quick.Generator.
func (v Version) Generate(rand *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(v.generate(rand, size))
}

var _ quick.Generator = Version{}
