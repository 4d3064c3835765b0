package mpod

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testTarget() *Target {
	return &Target{
		Host:           "192.168.10.50",
		Port:           defaultPort,
		Community:      defaultReadCommunity,
		WriteCommunity: defaultWriteCommunity,
		Version:        Version2c,
	}
}

func TestExecutorDryRunNeverTouchesTheClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no EXPECT calls: any client invocation fails the test
	mockClient := NewMockSNMPClient(ctrl)

	channels := testChannels(t)

	commands, err := BuildCommands(ActionEnable, channels)
	require.NoError(t, err)

	var out bytes.Buffer

	executor, err := NewExecutor(testTarget(), mockClient, &ExecutorOptions{DryRun: true, Out: &out})
	require.NoError(t, err)

	results := executor.Execute(context.Background(), commands)

	require.Len(t, results, len(commands))

	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Nil(t, r.Value)
	}

	rendered := out.String()
	assert.Equal(t, len(commands), strings.Count(rendered, "dry-run:"))
	assert.Contains(t, rendered, "192.168.10.50")
	assert.Contains(t, rendered, ".1.3.6.1.4.1.19947.1.3.2.1.9.1")
}

func TestExecutorSequentialDispatchInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSNMPClient(ctrl)

	commands, err := BuildCommands(ActionPrint, testChannels(t))
	require.NoError(t, err)

	// strict ordering: the second GET may not be issued before the
	// first completed
	first := mockClient.EXPECT().Get(gomock.Any(), commands[0].OID).Return(1, nil)
	mockClient.EXPECT().Get(gomock.Any(), commands[1].OID).Return(0, nil).After(first)

	executor, err := NewExecutor(testTarget(), mockClient, nil)
	require.NoError(t, err)

	results := executor.Execute(context.Background(), commands)

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Value)
	assert.Equal(t, 0, results[1].Value)
}

func TestExecutorIsolatesPerCommandFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSNMPClient(ctrl)

	slot := 0
	idx0, idx1, idx2 := 0, 1, 2

	var channels []Channel

	for name, idx := range map[string]*int{"HV0": &idx0, "HV1": &idx1, "HV2": &idx2} {
		channel, err := newChannel(name, &ChannelSpec{Slot: &slot, Index: idx}, 10, 100)
		require.NoError(t, err)

		channels = append(channels, channel)
	}

	commands, err := BuildCommands(ActionPrint, channels)
	require.NoError(t, err)

	// middle command times out; the batch must carry on
	mockClient.EXPECT().Get(gomock.Any(), commands[0].OID).Return(1, nil)
	mockClient.EXPECT().Get(gomock.Any(), commands[1].OID).Return(nil, assert.AnError)
	mockClient.EXPECT().Get(gomock.Any(), commands[2].OID).Return(0, nil)

	executor, err := NewExecutor(testTarget(), mockClient, nil)
	require.NoError(t, err)

	results := executor.Execute(context.Background(), commands)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, assert.AnError)
	assert.NoError(t, results[2].Err)

	failed := Failures(results)
	require.Len(t, failed, 1)
	assert.Equal(t, commands[1].OID, failed[0].Command.OID)
}

func TestExecutorDispatchesSets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := NewMockSNMPClient(ctrl)

	commands, err := BuildCommands(ActionEnable, testChannels(t)[:1])
	require.NoError(t, err)

	mockClient.EXPECT().
		Set(gomock.Any(), commands[0]).
		Return(1, nil)

	executor, err := NewExecutor(testTarget(), mockClient, nil)
	require.NoError(t, err)

	results := executor.Execute(context.Background(), commands)

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestNewExecutorRequiresTarget(t *testing.T) {
	_, err := NewExecutor(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNilTarget)
}
