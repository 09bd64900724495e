package mirror

import "testing"

func TestNewS3MirrorDisabledByDefault(t *testing.T) {
	m, err := NewS3Mirror(S3Config{})
	if err != nil {
		t.Fatalf("NewS3Mirror with empty config: %v", err)
	}
	if m != nil {
		t.Fatalf("NewS3Mirror with empty bucket = %v, want nil", m)
	}
}

func TestNewNATSMirrorDisabledByDefault(t *testing.T) {
	m, err := NewNATSMirror(NATSConfig{})
	if err != nil {
		t.Fatalf("NewNATSMirror with empty config: %v", err)
	}
	if m != nil {
		t.Fatalf("NewNATSMirror with empty URL = %v, want nil", m)
	}
}

func TestNilMirrorsAreSafeToFire(t *testing.T) {
	var s3 *S3Mirror
	var n *NATSMirror

	// Must not panic on a nil receiver; the whole point of constructing
	// these as (nil, nil) when unconfigured is that call sites never
	// need to nil-check before firing.
	s3.UploadAsync("/tmp/does-not-matter")
	n.PublishSnapshotCompletedAsync(1, 0, 0)
}
