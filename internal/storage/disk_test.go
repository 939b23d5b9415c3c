package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDiskUploadDownloadRoundTrip(t *testing.T) {
	disk := NewDisk(t.TempDir(), "/static/public")

	payload := []byte("\x89PNG\r\n\x1a\nfake image bytes")
	if err := disk.Upload("blog-images-paid", "7/123-abc.png", payload); err != nil {
		t.Fatalf("upload: %v", err)
	}

	data, contentType, err := disk.Download("blog-images-paid", "7/123-abc.png")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("downloaded bytes differ from uploaded bytes")
	}
	if contentType == "" {
		t.Fatalf("expected sniffed content type")
	}
}

func TestDiskDownloadMissingObject(t *testing.T) {
	disk := NewDisk(t.TempDir(), "/static/public")

	if _, _, err := disk.Download("blog-images-paid", "7/missing.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestDiskRejectsPathTraversal(t *testing.T) {
	disk := NewDisk(t.TempDir(), "/static/public")

	if _, _, err := disk.Download("blog-images-paid", "../secrets.txt"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if err := disk.Upload("..", "x.png", []byte("x")); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied on bucket traversal, got %v", err)
	}
}

func TestDiskPublicURL(t *testing.T) {
	disk := NewDisk(t.TempDir(), "https://blog.example.com/static/public/")

	url := disk.PublicURL("blog-images-public", "7/123-abc.png")
	if url != "https://blog.example.com/static/public/7/123-abc.png" {
		t.Fatalf("unexpected public url: %s", url)
	}
	if strings.Contains(url, "//7") {
		t.Fatalf("url should not contain duplicated slash: %s", url)
	}
}
