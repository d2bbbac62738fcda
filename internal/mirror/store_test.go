package mirror

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/driveatlas/drive-mirror/internal/models"
)

const testDocPrefix = "projects/test-project/databases/(default)/documents/"

// fakeFirestore is a minimal in-process Firestore backend: queries
// return a fixed document set, and every batch commit is recorded in
// arrival order so tests can assert write sequencing.
type fakeFirestore struct {
	firestorepb.UnimplementedFirestoreServer

	mu        sync.Mutex
	queryDocs []string
	commits   []*firestorepb.CommitRequest
}

func (f *fakeFirestore) RunQuery(_ *firestorepb.RunQueryRequest, stream firestorepb.Firestore_RunQueryServer) error {
	now := timestamppb.Now()

	for _, name := range f.queryDocs {
		resp := &firestorepb.RunQueryResponse{
			Document: &firestorepb.Document{
				Name:       name,
				CreateTime: now,
				UpdateTime: now,
			},
			ReadTime: now,
		}

		if err := stream.Send(resp); err != nil {
			return err
		}
	}

	return nil
}

func (f *fakeFirestore) Commit(_ context.Context, req *firestorepb.CommitRequest) (*firestorepb.CommitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commits = append(f.commits, req)

	now := timestamppb.Now()
	results := make([]*firestorepb.WriteResult, len(req.Writes))

	for i := range results {
		results[i] = &firestorepb.WriteResult{UpdateTime: now}
	}

	return &firestorepb.CommitResponse{WriteResults: results, CommitTime: now}, nil
}

func (f *fakeFirestore) recordedCommits() []*firestorepb.CommitRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*firestorepb.CommitRequest(nil), f.commits...)
}

func newTestStore(t *testing.T, fake *fakeFirestore) *Store {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	firestorepb.RegisterFirestoreServer(srv, fake)

	go func() { _ = srv.Serve(lis) }()

	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	client, err := firestore.NewClientWithDatabase(context.Background(),
		"test-project", "(default)", option.WithGRPCConn(conn))
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return &Store{
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func managerDoc(id string) string {
	return testDocPrefix + CollectionManagers + "/" + id
}

func TestReplaceManagers_DeletesCommitBeforeInserts(t *testing.T) {
	fake := &fakeFirestore{
		queryDocs: []string{managerDoc("stale-1"), managerDoc("stale-2")},
	}
	s := newTestStore(t, fake)

	err := s.ReplaceManagers(context.Background(), "D1", []models.Manager{
		{DriveID: "D1", Email: "lead@corp.example", Role: "organizer", Type: "user"},
	})
	require.NoError(t, err)

	commits := fake.recordedCommits()
	require.Len(t, commits, 2)

	// First commit carries only the stale deletions.
	require.Len(t, commits[0].Writes, 2)

	deleted := make([]string, 0, 2)
	for _, w := range commits[0].Writes {
		require.NotEmpty(t, w.GetDelete(), "expected delete, got %v", w)
		deleted = append(deleted, w.GetDelete())
	}

	assert.ElementsMatch(t, []string{managerDoc("stale-1"), managerDoc("stale-2")}, deleted)

	// Second commit inserts the fresh set, flagged as backend-synced and
	// with a generated record id.
	require.Len(t, commits[1].Writes, 1)

	doc := commits[1].Writes[0].GetUpdate()
	require.NotNil(t, doc)
	assert.Equal(t, "D1", doc.Fields["driveId"].GetStringValue())
	assert.Equal(t, "lead@corp.example", doc.Fields["email"].GetStringValue())
	assert.True(t, doc.Fields["synced_by_backend"].GetBooleanValue())

	id := doc.Fields["id"].GetStringValue()
	require.NotEmpty(t, id)
	assert.Equal(t, managerDoc(id), doc.Name)
}

func TestReplaceManagers_EmptyRemoteSetOnlyDeletes(t *testing.T) {
	fake := &fakeFirestore{
		queryDocs: []string{managerDoc("stale-1")},
	}
	s := newTestStore(t, fake)

	err := s.ReplaceManagers(context.Background(), "D1", nil)
	require.NoError(t, err)

	commits := fake.recordedCommits()
	require.Len(t, commits, 1)
	require.Len(t, commits[0].Writes, 1)
	assert.Equal(t, managerDoc("stale-1"), commits[0].Writes[0].GetDelete())
}

func TestReplaceManagers_NoStaleRecordsOnlyInserts(t *testing.T) {
	fake := &fakeFirestore{}
	s := newTestStore(t, fake)

	err := s.ReplaceManagers(context.Background(), "D1", []models.Manager{
		{ID: "perm-1", DriveID: "D1", Email: "a@corp.example", Role: "organizer", Type: "user"},
		{ID: "perm-2", DriveID: "D1", Email: "b@corp.example", Role: "fileOrganizer", Type: "user"},
	})
	require.NoError(t, err)

	commits := fake.recordedCommits()
	require.Len(t, commits, 1)
	require.Len(t, commits[0].Writes, 2)

	names := make([]string, 0, 2)
	for _, w := range commits[0].Writes {
		require.NotNil(t, w.GetUpdate())
		names = append(names, w.GetUpdate().Name)
	}

	// Provider permission ids are kept as document ids.
	assert.ElementsMatch(t, []string{managerDoc("perm-1"), managerDoc("perm-2")}, names)
}
