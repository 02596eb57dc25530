// SPDX-License-Identifier: MIT

package config

import "testing"

func TestSnapshotEnviron(t *testing.T) {
	t.Setenv("ENVCONF_TEST_VAR", "snapshot-value")

	env := SnapshotEnviron()

	got, ok := env.Lookup("ENVCONF_TEST_VAR")
	if !ok || got != "snapshot-value" {
		t.Errorf("Lookup(ENVCONF_TEST_VAR) = %q, %v; want %q, true", got, ok, "snapshot-value")
	}

	if _, ok := env.Lookup("ENVCONF_TEST_VAR_DEFINITELY_UNSET"); ok {
		t.Error("Lookup of unset variable reported ok")
	}
}

func TestEnvironmentFromMapCopies(t *testing.T) {
	source := map[string]string{"A": "1"}
	env := EnvironmentFromMap(source)

	source["A"] = "mutated"
	source["B"] = "2"

	if got, _ := env.Lookup("A"); got != "1" {
		t.Errorf("Lookup(A) = %q, want %q (snapshot leaked source mutation)", got, "1")
	}
	if _, ok := env.Lookup("B"); ok {
		t.Error("Lookup(B) reported ok, snapshot leaked source mutation")
	}
	if env.Len() != 1 {
		t.Errorf("Len() = %d, want 1", env.Len())
	}
}
