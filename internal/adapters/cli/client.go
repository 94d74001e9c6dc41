package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/grpc"
	"github.com/andrescamacho/uexcorp-go/internal/domain/daemon"
)

// requestTimeout bounds one CLI request. A cold start may fetch every
// dataset from UEX corp first.
const requestTimeout = 2 * time.Minute

// connector opens a client for one command
type connector func(ctx context.Context) (daemon.Client, error)

func clientConnector(local LocalClientFactory) connector {
	return func(ctx context.Context) (daemon.Client, error) {
		if localMode {
			if local == nil {
				return nil, fmt.Errorf("local mode is not available in this build")
			}
			return local(ctx, configPath)
		}
		client, err := grpc.NewDaemonClientGRPC(socketPath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to daemon: %w", err)
		}
		return client, nil
	}
}

// withClient runs fn with a connected client and a bounded context
func withClient(cmd *cobra.Command, connect connector, fn func(ctx context.Context, client daemon.Client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, client)
}

// callAndPrint executes a function and prints its answer
func callAndPrint(cmd *cobra.Command, connect connector, name string, args map[string]interface{}) error {
	return withClient(cmd, connect, func(ctx context.Context, client daemon.Client) error {
		result, err := client.Call(ctx, name, args)
		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return printResult(cmd.OutOrStdout(), result)
	})
}

func printResult(w io.Writer, result *daemon.FunctionResult) error {
	if jsonOutput {
		return printJSON(w, result)
	}
	fmt.Fprintln(w, result.Text)
	if result.Failed {
		return fmt.Errorf("function %s failed (request %s)", result.Operation, result.RequestID)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
