package framework

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var pkgSuites []*TestSuite

func AddSuites(s *TestSuite) {
	pkgSuites = append(pkgSuites, s)
}

type TestSuite struct {
	Cases []TestCase
}

type TestCase interface {
	Run(f *F)
}

// F is the handle of a running test case. It satisfies the testify
// TestingT interfaces.
type F struct {
	logger hclog.Logger

	lock   sync.Mutex
	failed bool
}

func (f *F) Logger() hclog.Logger {
	return f.logger
}

func (f *F) Errorf(format string, args ...interface{}) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.failed = true
	f.logger.Error(fmt.Sprintf(format, args...))
}

// FailNow stops the test case. It must be called from the goroutine running it.
func (f *F) FailNow() {
	f.lock.Lock()
	f.failed = true
	f.lock.Unlock()

	runtime.Goexit()
}

func (f *F) Failed() bool {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.failed
}

type Framework struct {
	logger hclog.Logger
	suites []*TestSuite
}

func New(logger hclog.Logger) *Framework {
	f := &Framework{
		logger: logger,
		suites: pkgSuites,
	}
	return f
}

// Run runs every registered case and returns the number of failed cases.
func (f *Framework) Run() int {
	failed := 0
	for _, s := range f.suites {
		for _, c := range s.Cases {
			name := reflect.TypeOf(c).Elem().Name()
			tf := &F{logger: f.logger.Named(name)}

			doneCh := make(chan struct{})
			go func() {
				defer close(doneCh)
				c.Run(tf)
			}()
			<-doneCh

			if tf.Failed() {
				f.logger.Error("case failed", "name", name)
				failed++
			} else {
				f.logger.Info("case passed", "name", name)
			}
		}
	}
	return failed
}
