//go:build grpcserver

package grpcserver

import (
	"context"
	"time"

	opsv1 "firewoodbank/api/ops/v1"
	"firewoodbank/internal/auth"
	"firewoodbank/internal/policy"
	"firewoodbank/internal/quantity"
	"firewoodbank/internal/reports"
	"firewoodbank/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	maxPageSize     = 100 // Maximum allowed page size for list operations.
	defaultPageSize = 20  // Default page size for list operations.
	wireDateFormat  = time.RFC3339
)

// OpsServer implements the OpsService: clients, work orders, and the
// delivery calendar. Every response is shaped by the caller's session; PII
// masking is applied fresh on each request.
type OpsServer struct {
	opsv1.UnimplementedOpsServiceServer
	Repos
}

func clampPage(size int32) int {
	n := int(size)
	if n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// CreateClient onboards a new client.
func (s *OpsServer) CreateClient(ctx context.Context, req *opsv1.CreateClientRequest) (*opsv1.CreateClientResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	c := clientFromProto(req.GetClient())
	c.CreatedByUserID = &sess.UserID
	created, err := s.Clients.Create(ctx, c)
	if err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "create_client", string(sess.Role), sess.Username)
	return &opsv1.CreateClientResponse{Client: clientToProto(policy.MaskClient(sess, *created))}, nil
}

// ListClients returns clients with PII masked per the caller's session.
func (s *OpsServer) ListClients(ctx context.Context, req *opsv1.ListClientsRequest) (*opsv1.ListClientsResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.Clients.List(ctx, clampPage(req.GetPageSize()), int(req.GetOffset()))
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*opsv1.Client, 0, len(rows))
	for _, c := range rows {
		out = append(out, clientToProto(policy.MaskClient(sess, *c)))
	}
	return &opsv1.ListClientsResponse{Clients: out}, nil
}

// UpdateClient rewrites a client profile.
func (s *OpsServer) UpdateClient(ctx context.Context, req *opsv1.UpdateClientRequest) (*opsv1.UpdateClientResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders)
	if err != nil {
		return nil, err
	}
	c := clientFromProto(req.GetClient())
	if err := s.Clients.Update(ctx, c, sess); err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.UpdateClientResponse{}, nil
}

// SetClientApproval moves a client through the approval workflow.
func (s *OpsServer) SetClientApproval(ctx context.Context, req *opsv1.SetClientApprovalRequest) (*opsv1.SetClientApprovalResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapApproveClients)
	if err != nil {
		return nil, err
	}
	var reason *string
	if req.GetDenialReason() != "" {
		r := req.GetDenialReason()
		reason = &r
	}
	err = s.Clients.SetApproval(ctx, req.GetClientId(), models.ApprovalStatus(req.GetStatus()), reason, sess)
	if err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.SetClientApprovalResponse{}, nil
}

// DeleteClient soft-deletes a client record.
func (s *OpsServer) DeleteClient(ctx context.Context, req *opsv1.DeleteClientRequest) (*opsv1.DeleteClientResponse, error) {
	sess, err := auth.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Clients.SoftDelete(ctx, req.GetClientId()); err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "delete_client", string(sess.Role), sess.Username)
	return &opsv1.DeleteClientResponse{}, nil
}

// CreateWorkOrder creates a work order in received status, resolving the
// delivery size up front when a vehicle choice is given.
func (s *OpsServer) CreateWorkOrder(ctx context.Context, req *opsv1.CreateWorkOrderRequest) (*opsv1.CreateWorkOrderResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	o := &models.WorkOrder{
		ClientID:        req.GetClientId(),
		CreatedByUserID: &sess.UserID,
	}
	if req.GetPairedOrderId() != "" {
		p := req.GetPairedOrderId()
		o.PairedOrderID = &p
	}
	if req.GetNotes() != "" {
		n := req.GetNotes()
		o.Notes = &n
	}
	if choice := req.GetDeliveryChoice(); choice != "" {
		size, err := quantity.ResolveDeliverySize(choice, req.GetOtherLabel(), req.GetOtherCords())
		if err != nil {
			return nil, rpcError(err)
		}
		o.DeliverySizeLabel = &size.Label
		o.DeliverySizeCords = &size.Cords
	}
	created, err := s.Orders.Create(ctx, o)
	if err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "create_work_order", string(sess.Role), sess.Username)
	return &opsv1.CreateWorkOrderResponse{WorkOrder: workOrderToProto(created)}, nil
}

// ListWorkOrders returns work orders, newest first.
func (s *OpsServer) ListWorkOrders(ctx context.Context, req *opsv1.ListWorkOrdersRequest) (*opsv1.ListWorkOrdersResponse, error) {
	if _, err := auth.RequireSession(ctx); err != nil {
		return nil, err
	}
	var rows []*models.WorkOrder
	var err error
	if req.GetClientId() != "" {
		rows, err = s.Orders.ListByClient(ctx, req.GetClientId())
	} else {
		rows, err = s.Orders.List(ctx, clampPage(req.GetPageSize()), int(req.GetOffset()))
	}
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*opsv1.WorkOrder, 0, len(rows))
	for _, o := range rows {
		out = append(out, workOrderToProto(o))
	}
	return &opsv1.ListWorkOrdersResponse{WorkOrders: out}, nil
}

// ScheduleWorkOrder assigns drivers/helpers and a date in one validated step.
func (s *OpsServer) ScheduleWorkOrder(ctx context.Context, req *opsv1.ScheduleWorkOrderRequest) (*opsv1.ScheduleWorkOrderResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(wireDateFormat, req.GetScheduledDate())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad scheduled_date: %v", err)
	}
	target := models.WorkOrderStatus(req.GetTargetStatus())
	if target == "" {
		target = models.WorkOrderScheduled
	}
	err = s.Orders.Schedule(ctx, req.GetWorkOrderId(), target, date, req.GetDrivers(), req.GetHelpers(), sess)
	if err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.ScheduleWorkOrderResponse{}, nil
}

// UpdateWorkOrderStatus runs a status transition through the lifecycle rules.
func (s *OpsServer) UpdateWorkOrderStatus(ctx context.Context, req *opsv1.UpdateWorkOrderStatusRequest) (*opsv1.UpdateWorkOrderStatusResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	var mileage, hours *float64
	if req.GetMileage() != 0 {
		m := req.GetMileage()
		mileage = &m
	}
	if req.GetWorkHours() != 0 {
		h := req.GetWorkHours()
		hours = &h
	}
	err = s.Orders.UpdateStatus(ctx, req.GetWorkOrderId(), models.WorkOrderStatus(req.GetStatus()), mileage, hours, sess)
	if err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.UpdateWorkOrderStatusResponse{}, nil
}

// UpdateWorkOrderAssignees rewrites the assignee list without a status change.
func (s *OpsServer) UpdateWorkOrderAssignees(ctx context.Context, req *opsv1.UpdateWorkOrderAssigneesRequest) (*opsv1.UpdateWorkOrderAssigneesResponse, error) {
	if _, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders); err != nil {
		return nil, err
	}
	if err := s.Orders.UpdateAssignees(ctx, req.GetWorkOrderId(), req.GetAssignees()); err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.UpdateWorkOrderAssigneesResponse{}, nil
}

// SetDeliverySize resolves a vehicle-based delivery size and persists it.
func (s *OpsServer) SetDeliverySize(ctx context.Context, req *opsv1.SetDeliverySizeRequest) (*opsv1.SetDeliverySizeResponse, error) {
	if _, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders); err != nil {
		return nil, err
	}
	err := s.Orders.SetDeliverySize(ctx, req.GetWorkOrderId(), req.GetChoice(), req.GetOtherLabel(), req.GetOtherCords())
	if err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.SetDeliverySizeResponse{}, nil
}

// SetPickupQuantity resolves a pickup quantity from direct cords or stack
// dimensions and persists it.
func (s *OpsServer) SetPickupQuantity(ctx context.Context, req *opsv1.SetPickupQuantityRequest) (*opsv1.SetPickupQuantityResponse, error) {
	if _, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders); err != nil {
		return nil, err
	}
	cords := req.GetCords()
	if d := req.GetDimensions(); d != nil {
		var err error
		cords, err = quantity.ResolvePickupDimensions(d.GetLength(), d.GetWidth(), d.GetHeight(), d.GetUnits())
		if err != nil {
			return nil, rpcError(err)
		}
	}
	if err := s.Orders.SetPickupCords(ctx, req.GetWorkOrderId(), cords); err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.SetPickupQuantityResponse{}, nil
}

// DeleteWorkOrder soft-deletes a work order.
func (s *OpsServer) DeleteWorkOrder(ctx context.Context, req *opsv1.DeleteWorkOrderRequest) (*opsv1.DeleteWorkOrderResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.SoftDelete(ctx, req.GetWorkOrderId()); err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "delete_work_order", string(sess.Role), sess.Username)
	return &opsv1.DeleteWorkOrderResponse{}, nil
}

// ListDeliveryEvents returns calendar events in a date window, or the most
// recent ones when no window is given.
func (s *OpsServer) ListDeliveryEvents(ctx context.Context, req *opsv1.ListDeliveryEventsRequest) (*opsv1.ListDeliveryEventsResponse, error) {
	if _, err := auth.RequireSession(ctx); err != nil {
		return nil, err
	}
	var rows []*models.DeliveryEvent
	var err error
	if req.GetFrom() != "" && req.GetTo() != "" {
		from, perr := time.Parse(wireDateFormat, req.GetFrom())
		if perr != nil {
			return nil, status.Errorf(codes.InvalidArgument, "bad from: %v", perr)
		}
		to, perr := time.Parse(wireDateFormat, req.GetTo())
		if perr != nil {
			return nil, status.Errorf(codes.InvalidArgument, "bad to: %v", perr)
		}
		rows, err = s.Events.ListBetween(ctx, from, to)
	} else {
		rows, err = s.Events.List(ctx, clampPage(req.GetPageSize()), int(req.GetOffset()))
	}
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*opsv1.DeliveryEvent, 0, len(rows))
	for _, ev := range rows {
		out = append(out, eventToProto(ev))
	}
	return &opsv1.ListDeliveryEventsResponse{Events: out}, nil
}

// PairableHalfOrders lists half-load pairing candidates for a client.
func (s *OpsServer) PairableHalfOrders(ctx context.Context, req *opsv1.PairableHalfOrdersRequest) (*opsv1.PairableHalfOrdersResponse, error) {
	if _, err := auth.RequireSession(ctx); err != nil {
		return nil, err
	}
	rows, err := s.Orders.PairableHalfOrders(ctx, req.GetClientId())
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*opsv1.WorkOrder, 0, len(rows))
	for _, o := range rows {
		out = append(out, workOrderToProto(o))
	}
	return &opsv1.PairableHalfOrdersResponse{WorkOrders: out}, nil
}

// CreateDeliveryEvent adds a calendar occurrence.
func (s *OpsServer) CreateDeliveryEvent(ctx context.Context, req *opsv1.CreateDeliveryEventRequest) (*opsv1.CreateDeliveryEventResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(wireDateFormat, req.GetStartDate())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad start_date: %v", err)
	}
	ev := &models.DeliveryEvent{
		Title:     req.GetTitle(),
		EventType: models.DeliveryEventType(req.GetEventType()),
		StartDate: start,
		Assigned:  req.GetAssigned(),
	}
	if req.GetWorkOrderId() != "" {
		id := req.GetWorkOrderId()
		ev.WorkOrderID = &id
	}
	created, err := s.Events.Create(ctx, ev)
	if err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "create_delivery_event", string(sess.Role), sess.Username)
	return &opsv1.CreateDeliveryEventResponse{EventId: created.ID}, nil
}

// WorkerCredit recomputes the caller's derived hours/deliveries/wood credit.
func (s *OpsServer) WorkerCredit(ctx context.Context, req *opsv1.WorkerCreditRequest) (*opsv1.WorkerCreditResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	c, err := reports.WorkerCredit(ctx, s.Orders, s.Events, sess)
	if err != nil {
		return nil, rpcError(err)
	}
	return &opsv1.WorkerCreditResponse{
		Hours:           c.Hours,
		Deliveries:      int32(c.Deliveries),
		WoodCreditCords: c.WoodCreditCords,
	}, nil
}
