package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the project root during tests, so that the logger's
	// relative logs/ directory lands in one predictable place.
	// usage is
	//
	//   in some_test.go,
	//   import (
	//     _ "homesense/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
