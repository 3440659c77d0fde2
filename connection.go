package wire

import (
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

// Connection is a control channel to the server: one long-lived Port used to
// spawn worker Ports, check availability, and tear down the session it
// anchors. It mirrors the original's client.Connection.
type Connection struct {
	datasource *DataSource
	port       *Port
}

// newConnection wraps port as a control Connection belonging to datasource.
func newConnection(datasource *DataSource, port *Port) *Connection {
	return &Connection{datasource: datasource, port: port}
}

// BeginConnection asks the server for a second control connection and opens
// a dedicated Port for it, mirroring Connection.begin_connection.
func (c *Connection) BeginConnection() (*Connection, error) {
	req := values.RequestBeginConnection
	if err := c.port.WriteValue(&req); err != nil {
		return nil, err
	}

	if err := c.port.Flush(); err != nil {
		return nil, err
	}

	slaveID, err := c.port.ReadInteger()
	if err != nil {
		return nil, err
	}

	port := c.datasource.newPort(slaveID)
	if err := port.Open(); err != nil {
		return nil, err
	}

	if _, err := c.port.ReadStatus(); err != nil {
		return nil, err
	}

	if _, err := port.ReadStatus(); err != nil {
		return nil, err
	}

	return newConnection(c.datasource, port), nil
}

// BeginWorker starts a worker on the server and returns the Port bound to
// it, mirroring Connection.begin_worker: a pooled Port is reused by passing
// its slave id along, otherwise the server is asked for a brand new one via
// SlaveIDAny.
func (c *Connection) BeginWorker() (*Port, error) {
	port := c.datasource.popPort()
	slaveID := SlaveIDAny

	if port != nil {
		slaveID = port.SlaveID()
		if slaveID == SlaveIDAny {
			return nil, &dberrors.UnexpectedError{Message: "tried to use invalid port from datasource"}
		}
	}

	slaveData, workerData, err := c.requestWorker(slaveID)
	if err != nil {
		if port != nil {
			if _, ok := err.(*dberrors.UnexpectedError); ok {
				port.Close()
			} else {
				c.datasource.pushPort(port)
			}
		}

		return nil, err
	}

	if slaveID == SlaveIDAny {
		port = c.datasource.newPort(slaveData)
		if err := port.Open(); err != nil {
			return nil, err
		}
	}

	port.SetWorkerID(workerData)
	return port, nil
}

func (c *Connection) requestWorker(slaveID int32) (slaveData, workerData int32, err error) {
	req := values.RequestBeginWorker
	if err := c.port.WriteValue(&req); err != nil {
		return 0, 0, err
	}

	if err := c.port.WriteValue(values.NewInteger32(slaveID)); err != nil {
		return 0, 0, err
	}

	if err := c.port.Flush(); err != nil {
		return 0, 0, err
	}

	slaveData, err = c.port.ReadInteger()
	if err != nil {
		return 0, 0, err
	}

	workerData, err = c.port.ReadInteger()
	if err != nil {
		return 0, 0, err
	}

	if _, err := c.port.ReadStatus(); err != nil {
		return 0, 0, err
	}

	return slaveData, workerData, nil
}

// CancelWorker asks the server to cancel the worker identified by workerID,
// mirroring Connection.cancel_worker.
func (c *Connection) CancelWorker(workerID int32) error {
	req := values.RequestCancelWorker
	if err := c.port.WriteValue(&req); err != nil {
		return err
	}

	if err := c.port.WriteValue(values.NewInteger32(workerID)); err != nil {
		return err
	}

	if err := c.port.Flush(); err != nil {
		return err
	}

	_, err := c.port.ReadStatus()
	return err
}

// DisconnectPort tells the server it may discard the ports named by
// slaveIDs rather than keep them reusable, mirroring
// Connection.disconnect_port.
func (c *Connection) DisconnectPort(slaveIDs []int32) error {
	req := values.RequestNoReuseConnection
	if err := c.port.WriteValue(&req); err != nil {
		return err
	}

	if err := c.port.WriteValue(&values.IntegerArray{Elements: slaveIDs}); err != nil {
		return err
	}

	if err := c.port.Flush(); err != nil {
		return err
	}

	_, err := c.port.ReadStatus()
	return err
}

// IsServerAvailable asks the server whether it is able to accept new work,
// mirroring Connection.is_serever_available.
func (c *Connection) IsServerAvailable() (bool, error) {
	req := values.RequestCheckAvailability
	if err := c.port.WriteValue(&req); err != nil {
		return false, err
	}

	if err := c.port.WriteValue(values.NewInteger32(int32(values.AvailabilityTargetServer))); err != nil {
		return false, err
	}

	if err := c.port.Flush(); err != nil {
		return false, err
	}

	result, err := c.port.ReadInteger()
	if err != nil {
		return false, err
	}

	if _, err := c.port.ReadStatus(); err != nil {
		return false, err
	}

	return result == 1, nil
}

// Close ends this connection's control request cycle and closes its Port.
// It never returns an error: a connection being closed has nothing further
// to report, mirroring Connection.close.
func (c *Connection) Close() {
	if c.port == nil {
		return
	}

	req := values.RequestEndConnection
	if err := c.port.WriteValue(&req); err == nil {
		if err := c.port.Flush(); err == nil {
			_, _ = c.port.ReadStatus()
		}
	}

	c.port.Close()
	c.port = nil
}
