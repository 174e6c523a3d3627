package sqlinline

const QInsertUsageEvent = `--sql a6d14f83-7e2b-4c90-b5f1-3a8e6d02c947
insert into usage_events (id, profile_id, guest_id, kind, country, reconciled, occurred_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::boolean, $6::timestamptz);
`

const QCountUnreconciled = `--sql 5b0e92d7-4a61-48fc-83b9-c7f2e5a1d608
select count(*)
from usage_events
where reconciled = false
  and occurred_at >= now() - interval '24 hours';
`
