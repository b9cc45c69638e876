/*
 * Copyright (c) 2026 by the gosketch authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"strings"
	"testing"
)

func TestWriteReportContainsPanicAndStack(t *testing.T) {
	path, err := writeReport("boom", []byte("goroutine 1 [running]:\nmain.main()"))
	if err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"Panic: boom", "goroutine 1", "Version:", "OS/Arch:"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("report missing %q:\n%s", want, data)
		}
	}
}

func TestRecoverExitsNonZero(t *testing.T) {
	oldExit := exitFn
	var code = -1
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover()
		panic("totally expected")
	}()

	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRecoverIsNoopWithoutPanic(t *testing.T) {
	oldExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover()
	}()

	if called {
		t.Fatalf("Recover must not exit without a panic")
	}
}
